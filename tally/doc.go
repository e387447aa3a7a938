/*
Package tally keeps score of the verdicts of a probe batch in progress, for
interactive display while the batch is running.
*/
package tally
