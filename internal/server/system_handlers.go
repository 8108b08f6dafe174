package server

import (
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

var startupTime = time.Now()

// handleSystemStatus reports process uptime and host resource usage
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"uptime_seconds": int64(time.Since(startupTime).Seconds()),
	}

	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		response["cpu_percent"] = percentages[0]
	} else if err != nil {
		s.log.Debug().Err(err).Msg("Failed to read CPU usage")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		response["memory_percent"] = vm.UsedPercent
		response["memory_used_mb"] = vm.Used / 1024 / 1024
		response["memory_total_mb"] = vm.Total / 1024 / 1024
	} else {
		s.log.Debug().Err(err).Msg("Failed to read memory usage")
	}

	s.writeJSON(w, http.StatusOK, response)
}
