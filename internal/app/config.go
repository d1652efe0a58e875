package app

import (
	"strings"
	"time"

	"github.com/ParticlesofMind/neptino-sub010/internal/canvas"
	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/utils"
)

type Config struct {
	Port             string
	ServiceName      string
	Environment      string
	JWTSecretKey     string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	AutosaveInterval time.Duration
	Canvas           canvas.Config
	BuildConcurrency int
	TemplateSeedDir  string
	RedisAddr        string
	RedisChannel     string
	CORSOrigins      []string
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	serviceName := utils.GetEnv("SERVICE_NAME", "neptino", log)
	environment := utils.GetEnv("ENVIRONMENT", "development", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	autosaveMillis := utils.GetEnvAsInt("AUTOSAVE_INTERVAL_MS", 500, log)

	canvasCfg := canvas.DefaultConfig()
	canvasCfg.Dimensions.Width = float64(utils.GetEnvAsInt("CANVAS_WIDTH", int(canvasCfg.Dimensions.Width), log))
	canvasCfg.Dimensions.Height = float64(utils.GetEnvAsInt("CANVAS_HEIGHT", int(canvasCfg.Dimensions.Height), log))
	canvasMargin := utils.GetEnvAsInt("CANVAS_MARGIN", int(canvasCfg.Margins.Top), log)
	canvasCfg.Margins.Top = float64(canvasMargin)
	canvasCfg.Margins.Right = float64(canvasMargin)
	canvasCfg.Margins.Bottom = float64(canvasMargin)
	canvasCfg.Margins.Left = float64(canvasMargin)

	buildConcurrency := utils.GetEnvAsInt("CANVAS_BUILD_CONCURRENCY", 4, log)
	templateSeedDir := utils.GetEnv("TEMPLATE_SEED_DIR", "", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	redisChannel := utils.GetEnv("REDIS_SSE_CHANNEL", "neptino:sse", log)
	corsOrigins := utils.GetEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173", log)

	return Config{
		Port:             port,
		ServiceName:      serviceName,
		Environment:      environment,
		JWTSecretKey:     jwtSecretKey,
		AccessTokenTTL:   time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:  time.Duration(refreshTokenTTLSeconds) * time.Second,
		AutosaveInterval: time.Duration(autosaveMillis) * time.Millisecond,
		Canvas:           canvasCfg,
		BuildConcurrency: buildConcurrency,
		TemplateSeedDir:  templateSeedDir,
		RedisAddr:        redisAddr,
		RedisChannel:     redisChannel,
		CORSOrigins:      splitOrigins(corsOrigins),
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
