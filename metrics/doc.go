/*
Package metrics turns the verdicts of a probe batch into Prometheus gauges,
either for scraping through the batch's registry or written as a
node_exporter textfile.
*/
package metrics
