package monitor

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"drone-permit-api/config"
	"drone-permit-api/models"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// RegisterMonitorPage mounts a lightweight operator status page plus a JSON
// stats endpoint. Guarded by MONITOR_TOKEN.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor", monitorUI)
	router.GET("/monitor/stats", monitorStats)
}

func authorized(c *gin.Context) bool {
	token := os.Getenv("MONITOR_TOKEN")
	if token == "" || c.Query("token") != token {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return false
	}
	return true
}

func monitorStats(c *gin.Context) {
	if !authorized(c) {
		return
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	dbStatus := "ok"
	var activeFlights int64
	if sqlDB, err := config.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unreachable"
	} else {
		config.DB.Model(&models.Flight{}).
			Where("operational_status = ?", models.OpActive).Count(&activeFlights)
	}

	c.JSON(http.StatusOK, gin.H{
		"uptime_seconds": int(time.Since(startedAt).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
		"heap_mb":        mem.HeapAlloc / (1024 * 1024),
		"database":       dbStatus,
		"active_flights": activeFlights,
	})
}

func monitorUI(c *gin.Context) {
	if !authorized(c) {
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Drone Permit API Monitor</title>
  <style>
    body { background: #0f0f0f; color: #e0e0e0; font-family: sans-serif; padding: 40px; }
    h1 { font-size: 1.6rem; }
    table { border-collapse: collapse; margin-top: 20px; }
    td { padding: 6px 16px; border-bottom: 1px solid #333; }
  </style>
</head>
<body>
  <h1>Drone Permit API</h1>
  <table id="stats"></table>
  <script>
    async function refresh() {
      const res = await fetch('/monitor/stats' + location.search);
      const data = await res.json();
      document.getElementById('stats').innerHTML =
        Object.entries(data).map(([k, v]) => '<tr><td>' + k + '</td><td>' + v + '</td></tr>').join('');
    }
    refresh();
    setInterval(refresh, 5000);
  </script>
</body>
</html>`))
}
