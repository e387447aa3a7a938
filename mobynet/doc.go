/*
Package mobynet discovers the addresses of the containers sharing Docker
networks with a particular container, so that reachability can be checked from
inside that container's network namespace.
*/
package mobynet
