package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Example_customRegistry demonstrates using a custom Prometheus registry.
func Example_customRegistry() {
	customRegistry := prometheus.NewRegistry()

	registry := FromConfig(Config{
		Enabled:  true,
		Registry: customRegistry,
	})

	registry.TasksDispatched.WithLabelValues("default").Add(3)
	registry.TasksFailed.WithLabelValues("default").Inc()

	fmt.Println(testutil.ToFloat64(registry.TasksDispatched.WithLabelValues("default")))
	fmt.Println(testutil.ToFloat64(registry.TasksFailed.WithLabelValues("default")))

	// Output:
	// 3
	// 1
}
