package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// healthHandler reports liveness together with host metrics.
func (s *Server) healthHandler(c echo.Context) error {
	ctx := c.Request().Context()

	// 1. Memory Stats
	v, _ := mem.VirtualMemoryWithContext(ctx)

	// 2. CPU Usage since the previous call
	cpuPercent, _ := cpu.PercentWithContext(ctx, 0, false)

	// 3. Disk Stats (Root partition)
	d, _ := disk.UsageWithContext(ctx, "/")

	// 4. Host/Runtime Info
	hInfo, _ := host.InfoWithContext(ctx)

	runtime := map[string]interface{}{
		"uptime":     time.Since(s.startTime).Round(time.Second).String(),
		"start_time": s.startTime.Format(time.RFC3339),
	}
	if hInfo != nil {
		runtime["os"] = hInfo.OS
		runtime["platform"] = hInfo.Platform
		runtime["arch"] = hInfo.KernelArch
		runtime["hostname"] = hInfo.Hostname
	}

	resp := map[string]interface{}{
		"status":  "online",
		"runtime": runtime,
		"app": map[string]interface{}{
			"llm_provider":        s.provider,
			"chart_cache_entries": s.charts.Len(),
			"live_connections":    s.hub.Count(),
		},
	}
	if len(cpuPercent) > 0 {
		resp["cpu"] = map[string]interface{}{
			"usage_percent": fmt.Sprintf("%.2f%%", cpuPercent[0]),
		}
	}
	if v != nil {
		resp["memory"] = map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(v.Total)/1024/1024/1024),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(v.Used)/1024/1024/1024),
			"used_percent": fmt.Sprintf("%.2f%%", v.UsedPercent),
		}
	}
	if d != nil {
		resp["disk"] = map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(d.Total)/1024/1024/1024),
			"used_percent": fmt.Sprintf("%.2f%%", d.UsedPercent),
		}
	}

	return c.JSON(http.StatusOK, resp)
}
