// PaiGong 门店排班考勤引擎服务
// 主程序入口

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paigong/paigong/internal/auth"
	"github.com/paigong/paigong/internal/config"
	"github.com/paigong/paigong/internal/database"
	"github.com/paigong/paigong/internal/handler"
	"github.com/paigong/paigong/internal/metrics"
	"github.com/paigong/paigong/internal/middleware"
	"github.com/paigong/paigong/internal/repository"
	"github.com/paigong/paigong/pkg/attendance"
	"github.com/paigong/paigong/pkg/logger"
	"github.com/paigong/paigong/pkg/payroll"
	"github.com/paigong/paigong/pkg/scheduler"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
	})

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("env", cfg.App.Env).
		Msg("PaiGong 门店排班考勤引擎")

	// 仓储：配置了数据库则用PostgreSQL，否则内存运行
	var (
		schedules repository.ScheduleStore
		links     repository.ShareLinkStore
		staff     repository.StaffStore
		db        *database.DB
	)
	if cfg.Database.Enabled() {
		db, err = database.New(&cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("数据库初始化失败")
		}
		defer db.Close()

		if err := db.Migrate(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("表结构初始化失败")
		}
		schedules = repository.NewScheduleRepository(db)
		links = repository.NewShareLinkRepository(db)
		staff = repository.NewStaffRepository(db)
	} else {
		logger.Warn().Msg("未配置数据库，使用内存仓储")
		schedules = repository.NewMemoryScheduleStore()
		links = repository.NewMemoryShareLinkStore()
		staff = repository.NewMemoryStaffStore()
	}

	m, err := metrics.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("指标初始化失败")
	}

	engine := scheduler.New(scheduler.Options{
		OptimizerMaxIterations: cfg.Scheduler.OptimizerMaxIterations,
	})
	tokens := auth.NewManager(&cfg.JWT)
	storeZone, err := cfg.Attendance.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("打卡时区配置无效")
	}
	verifier := &attendance.Verifier{
		MaxDistanceMeters: cfg.Attendance.MaxDistanceMeters,
		RequireSelfie:     cfg.Attendance.RequireSelfie,
		LateGrace:         cfg.Attendance.LateGrace,
		Zone:              storeZone,
	}
	calculator := &payroll.Calculator{Grace: cfg.Attendance.LateGrace, Zone: storeZone}

	scheduleHandler := handler.NewScheduleHandler(engine, schedules, m)
	shareHandler := handler.NewShareLinkHandler(schedules, links, cfg.Share.TTL)
	attendanceHandler := handler.NewAttendanceHandler(verifier)
	payrollHandler := handler.NewPayrollHandler(calculator)
	authHandler := handler.NewAuthHandler(staff, tokens)

	mux := http.NewServeMux()

	// 系统端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if db != nil {
			if err := db.Health(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		fmt.Fprintf(w, `{"status":"%s","service":"paigong"}`, status)
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`,
			Version, BuildTime, GitCommit)
	})

	// API v1
	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "PaiGong 排班考勤引擎 API v1",
			"endpoints": {
				"auth": {"login": "POST /api/v1/auth/login"},
				"schedule": {
					"generate": "POST /api/v1/schedule/generate",
					"week": "GET /api/v1/schedule/week"
				},
				"share": {
					"create": "POST /api/v1/share",
					"resolve": "GET /api/v1/share/{code}"
				},
				"attendance": {"checkin": "POST /api/v1/attendance/checkin"},
				"payroll": {"summarize": "POST /api/v1/payroll/summarize"}
			}
		}`))
	})
	mux.HandleFunc("/api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("/api/v1/schedule/generate", scheduleHandler.Generate)
	mux.HandleFunc("/api/v1/schedule/week", scheduleHandler.GetByWeek)
	mux.HandleFunc("/api/v1/share", shareHandler.Create)
	mux.HandleFunc("/api/v1/share/", shareHandler.Resolve)
	mux.HandleFunc("/api/v1/attendance/checkin", attendanceHandler.CheckIn)
	mux.HandleFunc("/api/v1/payroll/summarize", payrollHandler.Summarize)

	// 监控端点
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, m.Handler())
	}

	// 分享解析和登录无需认证
	skipAuth := []string{
		"/health", "/version", cfg.Metrics.Path,
		"/api/v1/auth/login", "/api/v1/share/",
	}

	root := middleware.Chain(mux,
		middleware.RequestID,
		middleware.Recovery,
		middleware.CORS,
		middleware.Auth(tokens, skipAuth),
		middleware.Logging(m),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("url", fmt.Sprintf("http://localhost:%d", cfg.App.Port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}
