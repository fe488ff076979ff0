// Package websocket - websocket/metrics.go
// file: websocket/metrics.go

package websocket

import (
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"

	"go-field-ops/logger"
)

// Metrics are published only when METRICS_NAMESPACE is set; local and test
// runs skip CloudWatch entirely.

var (
	cwOnce   sync.Once
	cwClient *cloudwatch.CloudWatch
)

func metricsNamespace() string {
	return os.Getenv("METRICS_NAMESPACE")
}

// Reuse a single CloudWatch client for all metrics calls.
func client() *cloudwatch.CloudWatch {
	cwOnce.Do(func() {
		cwClient = cloudwatch.New(session.Must(session.NewSession()))
	})
	return cwClient
}

// PublishSubscriberCount pushes the current live-feed connection count.
func PublishSubscriberCount(count int) {
	putMetric("LocationFeedSubscribers", float64(count), "Count")
}

// PublishLocationBroadcast counts one fanned-out location update.
func PublishLocationBroadcast() {
	putMetric("LocationBroadcasts", 1, "Count")
}

// PublishUploadCount counts one accepted media upload.
func PublishUploadCount() {
	putMetric("MediaUploads", 1, "Count")
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func putMetric(metricName string, value float64, unit string) {
	namespace := metricsNamespace()
	if namespace == "" {
		return
	}

	_, err := client().PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(namespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Value:      aws.Float64(value),
				Unit:       aws.String(unit),
				Timestamp:  aws.Time(time.Now()),
			},
		},
	})
	if err != nil {
		logger.Warn.Printf("metrics: failed to publish %s: %v", metricName, err)
	}
}
