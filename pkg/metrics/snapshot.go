package metrics

import (
	"strings"

	dto "github.com/prometheus/client_model/go"
)

// Snapshot resumen de salud calculado a partir de las métricas reales del proceso.
type Snapshot struct {
	TotalRequests     float64 `json:"total_requests"`
	ServerErrors      float64 `json:"server_errors"`
	ClientErrors      float64 `json:"client_errors"`
	ErrorRate         float64 `json:"error_rate"`          // 5xx / total, 0..1
	AvgLatencySeconds float64 `json:"avg_latency_seconds"` // suma / cantidad del histograma HTTP
	Goroutines        float64 `json:"goroutines"`
	ResidentMemory    float64 `json:"resident_memory_bytes"`
	LiveSessions      float64 `json:"live_sessions"`
	AIGenerations     float64 `json:"ai_generations"`
	RealtimeEvents    float64 `json:"realtime_events"`
}

// Snapshot recorre el registry y agrega los valores relevantes.
func (m *Metrics) Snapshot() (Snapshot, error) {
	var s Snapshot
	if m == nil {
		return s, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return s, err
	}

	var latencySum float64
	var latencyCount uint64
	for _, mf := range families {
		name := mf.GetName()
		switch {
		case strings.HasSuffix(name, "_http_requests_total"):
			s.TotalRequests += sumCounters(mf)
		case strings.HasSuffix(name, "_http_status_category_total"):
			for _, metric := range mf.GetMetric() {
				switch labelValue(metric, "category") {
				case "5xx":
					s.ServerErrors += metric.GetCounter().GetValue()
				case "4xx":
					s.ClientErrors += metric.GetCounter().GetValue()
				}
			}
		case strings.HasSuffix(name, "_http_request_duration_seconds"):
			for _, metric := range mf.GetMetric() {
				latencySum += metric.GetHistogram().GetSampleSum()
				latencyCount += metric.GetHistogram().GetSampleCount()
			}
		case strings.HasSuffix(name, "_live_sessions"):
			for _, metric := range mf.GetMetric() {
				s.LiveSessions += metric.GetGauge().GetValue()
			}
		case strings.HasSuffix(name, "_ai_generations_total"):
			s.AIGenerations += sumCounters(mf)
		case strings.HasSuffix(name, "_realtime_events_total"):
			s.RealtimeEvents += sumCounters(mf)
		case name == "go_goroutines":
			for _, metric := range mf.GetMetric() {
				s.Goroutines = metric.GetGauge().GetValue()
			}
		case name == "process_resident_memory_bytes":
			for _, metric := range mf.GetMetric() {
				s.ResidentMemory = metric.GetGauge().GetValue()
			}
		}
	}

	if s.TotalRequests > 0 {
		s.ErrorRate = s.ServerErrors / s.TotalRequests
	}
	if latencyCount > 0 {
		s.AvgLatencySeconds = latencySum / float64(latencyCount)
	}
	return s, nil
}

func sumCounters(mf *dto.MetricFamily) float64 {
	var total float64
	for _, metric := range mf.GetMetric() {
		total += metric.GetCounter().GetValue()
	}
	return total
}

func labelValue(metric *dto.Metric, name string) string {
	for _, lp := range metric.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
