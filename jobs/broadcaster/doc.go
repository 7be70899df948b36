// Package broadcaster implements a background job that scans the run
// store for runs that have not been published yet and sends a summary
// of each to an external sink (Kafka through sarama or kafka-go).
package broadcaster
