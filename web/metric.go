/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package web

import (
	"github.com/prometheus/client_golang/prometheus"
)

type ResponseMetric struct {
	responseTotal      *prometheus.CounterVec
	responseBytesTotal *prometheus.CounterVec
	costHistogram      prometheus.Histogram
}

func NewResponseMetric(name string) *ResponseMetric {
	constLabels := prometheus.Labels{"engine": name}

	buckets := []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000}
	metric := &ResponseMetric{
		responseTotal:      prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_response_total", Help: "http_response_total counter", ConstLabels: constLabels}, []string{"code"}),
		responseBytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_response_bytes_total", Help: "http_response_bytes_total counter", ConstLabels: constLabels}, []string{"code"}),
		costHistogram:      prometheus.NewHistogram(prometheus.HistogramOpts{Name: "http_response_write_histogram", Help: "http_response_write_histogram", Buckets: buckets, ConstLabels: constLabels}),
	}

	prometheus.Register(metric.responseTotal)
	prometheus.Register(metric.responseBytesTotal)
	prometheus.Register(metric.costHistogram)

	return metric
}

func (m *ResponseMetric) saveMetric(code string, bytes int64, cost int64) {
	m.responseTotal.WithLabelValues(code).Inc()
	m.responseBytesTotal.WithLabelValues(code).Add(float64(bytes))
	m.costHistogram.Observe(float64(cost))
}
