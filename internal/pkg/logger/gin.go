package logger

import (
	"Propermint/internal/api/config"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// accessUserKey 与 consts.PrincipalCtxKey 保持一致，logger 不依赖 consts
const accessUserKey = "username"

func SetupGin(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		SkipPaths: []string{"/api/ping"},
		Formatter: accessLine,
	}))

	r.Use(gin.Recovery())
}

func accessLine(p gin.LogFormatterParams) string {
	var traceID, username string
	if p.Keys != nil {
		traceID, _ = p.Keys[TraceIDKey].(string)
		username, _ = p.Keys[accessUserKey].(string)
	}
	if traceID == "" && p.Request != nil {
		traceID = TraceID(p.Request.Context())
	}

	return fmt.Sprintf(
		`{"time":"%s","level":"INFO","msg":"GIN_ACCESS","trace_id":"%s","log_token":"%s","target_index":"%s","method":"%s","path":"%s","status":%d,"latency":"%v","client_ip":"%s","username":%q}`+"\n",
		p.TimeStamp.Format(time.RFC3339),
		traceID,
		config.Cfg.Logger.Logstash.Token,
		config.Cfg.Logger.Logstash.Index,
		p.Method,
		p.Path,
		p.StatusCode,
		p.Latency,
		p.ClientIP,
		username,
	)
}
