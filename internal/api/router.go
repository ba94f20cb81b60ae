package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	conciergeHandler "hotpot-concierge/internal/api/handlers/concierge"
	"hotpot-concierge/internal/api/handlers/health"
	"hotpot-concierge/internal/api/middleware"
	"hotpot-concierge/internal/core/concierge"
	"hotpot-concierge/internal/core/knowledge"
	"hotpot-concierge/internal/core/llm"
	"hotpot-concierge/internal/core/menu"
	"hotpot-concierge/internal/core/order"
	"hotpot-concierge/internal/core/profile"
	"hotpot-concierge/internal/core/recommend"
	"hotpot-concierge/internal/core/sauce"
	"hotpot-concierge/internal/core/session"
	"hotpot-concierge/internal/infrastructure/config"
	"hotpot-concierge/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 60 * time.Second
	// 請求體大小限制 (1MB)，純文本對話接口用不到更大
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, store session.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 加載菜單與蘸料規則
	catalog, err := menu.Load(cfg.Menu.MenuPath)
	if err != nil {
		common.LogError("Failed to load menu catalog", zap.Error(err), zap.String("path", cfg.Menu.MenuPath))
		return nil, fmt.Errorf("failed to load menu catalog: %w", err)
	}
	ruleTable, err := sauce.LoadRules(cfg.Menu.RulesPath)
	if err != nil {
		common.LogError("Failed to load sauce pairing rules", zap.Error(err), zap.String("path", cfg.Menu.RulesPath))
		return nil, fmt.Errorf("failed to load sauce pairing rules: %w", err)
	}

	common.LogInfo("Menu catalog loaded",
		zap.String("shop_name", catalog.ShopName()),
		zap.Int("ingredients", len(catalog.Ingredients())),
		zap.Int("broths", len(catalog.Broths())),
		zap.Int("sauce_rules", len(ruleTable.Rules)),
	)

	// 初始化核心引擎
	sauceEngine := sauce.NewEngine(ruleTable, catalog)
	recommender := recommend.NewEngine(catalog)
	parser := recommend.NewParser(catalog)
	assembler := order.NewAssembler(catalog, sauceEngine)

	// Oracle 初始化：LLM 關閉時退回規則版實現
	var profileOracle profile.Oracle
	var knowledgeOracle knowledge.Oracle
	if cfg.LLM.Enabled && cfg.LLM.APIKey != "" {
		client := llm.NewClient(&cfg.LLM)
		profileOracle = profile.NewExtractor(client)
		knowledgeOracle = knowledge.NewAnswerer(client)
		common.LogInfo("LLM oracles initialized",
			zap.String("model", cfg.LLM.Model),
			zap.Duration("timeout", cfg.LLM.Timeout),
		)
	} else {
		profileOracle = profile.NewHeuristicExtractor()
		knowledgeOracle = knowledge.NewFAQ()
		common.LogWarn("LLM disabled, falling back to heuristic oracles")
	}

	conciergeRouter := concierge.NewRouter(
		catalog, recommender, parser, assembler,
		profileOracle, knowledgeOracle, store,
	)

	// 全局中間件：設置超時和上下文注入
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("catalog", catalog)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeGatewayTimeout,
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(middleware.Deduplication(cfg))
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	{
		handler := conciergeHandler.NewHandler(conciergeRouter, catalog)

		api.GET("/menu", handler.HandleMenu)
		api.POST("/chat", handler.HandleChat)
		api.POST("/recommend", handler.HandleRecommend)
		api.POST("/cart/update", handler.HandleCartUpdate)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.String("session_store", cfg.Session.Store),
		zap.Bool("llm_enabled", cfg.LLM.Enabled),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
