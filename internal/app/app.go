package app

import (
	"context"
	"time"

	"nexboard/internal/config"
	"nexboard/internal/gateway"
	"nexboard/internal/handlers"
	"nexboard/internal/logger"
	"nexboard/internal/routes"
	"nexboard/internal/services"
	"nexboard/internal/tokenstore"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	tokens, err := tokenstore.New(cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(cfg.APITimeout)
	if err != nil {
		timeout = 30 * time.Second
	}

	// Шлюз к бэкенду
	client := gateway.NewClient(cfg.APIBaseURL, timeout, tokens)

	// Сервисы
	sessionService := services.NewSessionService(client, tokens)
	dashboardService := services.NewDashboardService(client)

	// Хендлеры
	pageHandler := handlers.NewPageHandler(sessionService, dashboardService)
	apiHandler := handlers.NewAPIHandler(sessionService, dashboardService)

	// ▶️ Фоновое обновление system health (срез эфемерный)
	StartHealthRefresher(cfg, sessionService, dashboardService)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, pageHandler, apiHandler, sessionService)

	return router, nil
}

// StartHealthRefresher периодически перечитывает состояние бэкенда,
// пока есть валидный токен.
func StartHealthRefresher(cfg *config.Config, session *services.SessionService, dashboard *services.DashboardService) {
	period, err := time.ParseDuration(cfg.HealthRefresh)
	if err != nil || period <= 0 {
		logger.Log.Warn("HEALTH_REFRESH некорректен, фоновое обновление выключено", zap.String("value", cfg.HealthRefresh))
		return
	}

	t := time.NewTicker(period)
	go func() {
		for range t.C {
			if !session.HasValidToken() {
				continue
			}
			dashboard.RefreshHealth(context.Background())
		}
	}()
}
