package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"InstaCatalog/ai/copywriter"
	"InstaCatalog/ai/vision"
	"InstaCatalog/bot"
	"InstaCatalog/bot/whatsapp"
	"InstaCatalog/impl/core"
	"InstaCatalog/internal/config"
	repository "InstaCatalog/internal/database"
	"InstaCatalog/internal/http-server/api"
	"InstaCatalog/internal/lib/logger"
	"InstaCatalog/internal/lib/sl"
	"InstaCatalog/internal/service/catalog"
	"InstaCatalog/internal/service/instagram"
	"InstaCatalog/internal/service/media"
	"InstaCatalog/internal/service/site"
	"InstaCatalog/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
			tgBot = nil
		} else {
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting instacatalog", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	var repo repository.Repository = repository.NewMemoryStore()
	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(sl.Err(err)).Error("mongo client, falling back to memory store")
	}
	if db != nil {
		repo = db
	}

	scraper := instagram.New(instagram.Options{
		BaseURL:       conf.Instagram.BaseURL,
		UserAgent:     conf.Instagram.UserAgent,
		AppID:         conf.Instagram.AppID,
		Timeout:       conf.Instagram.Timeout,
		RatePerMinute: conf.Instagram.RatePerMinute,
		MaxPosts:      conf.Instagram.MaxPosts,
	}, lg)

	rdb, err := repository.NewRedisClient(conf, lg)
	if err != nil {
		lg.With(sl.Err(err)).Error("redis client, profile cache disabled")
	}
	if rdb != nil {
		scraper.SetCache(instagram.NewRedisCache(rdb, conf.Redis.TTL, lg))
	}

	builder := catalog.NewBuilder(catalog.Options{
		OrderPhone:  conf.WhatsApp.OrderPhone,
		MaxProducts: conf.Site.MaxProducts,
		Currency:    conf.Site.Currency,
		SiteBaseURL: conf.Site.BaseURL,
	}, lg)

	integrations := map[string]bool{
		"mongo":      db != nil,
		"redis":      rdb != nil,
		"cloudinary": false,
		"vision":     false,
		"openai":     false,
		"telegram":   tgBot != nil,
	}

	if conf.Cloudinary.Enabled {
		uploader, err := media.NewUploader(conf.Cloudinary.CloudName, conf.Cloudinary.ApiKey,
			conf.Cloudinary.ApiSecret, conf.Cloudinary.Folder, lg)
		if err != nil {
			lg.With(sl.Err(err)).Error("cloudinary uploader")
		} else {
			builder.SetRehoster(uploader)
			integrations["cloudinary"] = true
			lg.With(
				slog.String("cloud", conf.Cloudinary.CloudName),
				sl.Secret("api_key", conf.Cloudinary.ApiKey),
			).Info("cloudinary uploader initialized")
		}
	}

	if conf.Vision.Enabled {
		analyzer, err := vision.New(ctx, conf.Vision.CredentialsFile, conf.Vision.ApiKey, conf.Vision.MaxLabels, lg)
		if err != nil {
			lg.With(sl.Err(err)).Error("vision client")
		} else {
			builder.SetAnalyzer(analyzer)
			integrations["vision"] = true
			lg.Info("vision client initialized")
		}
	}

	if conf.OpenAI.ApiKey != "" {
		builder.SetWriter(copywriter.New(conf.OpenAI.ApiKey, conf.OpenAI.Model, lg))
		integrations["openai"] = true
		lg.With(
			sl.Secret("openai_key", conf.OpenAI.ApiKey),
			slog.String("model", conf.OpenAI.Model),
		).Info("copywriter initialized")
	}

	renderer, err := site.NewRenderer(conf.WhatsApp.OrderPhone)
	if err != nil {
		lg.With(sl.Err(err)).Error("site templates")
		return
	}

	handler := core.New(core.Options{
		Workers:      conf.Worker.Count,
		QueueSize:    conf.Worker.QueueSize,
		JobTimeout:   conf.Worker.JobTimeout,
		Integrations: integrations,
	}, lg)
	handler.SetRepository(repo)
	handler.SetScraper(scraper)
	handler.SetBuilder(builder)
	handler.SetRenderer(renderer)

	waBot := whatsapp.NewWhatsAppBot(whatsapp.Config{
		AccessToken:   conf.WhatsApp.AccessToken,
		VerifyToken:   conf.WhatsApp.VerifyToken,
		AppSecret:     conf.WhatsApp.AppSecret,
		PhoneNumberID: conf.WhatsApp.PhoneNumberID,
		GraphURL:      conf.WhatsApp.GraphURL,
		ApiVersion:    conf.WhatsApp.ApiVersion,
	}, lg)
	waBot.SetMessageHandler(handler)
	handler.SetMessenger(waBot)
	lg.With(
		slog.String("phone_number_id", conf.WhatsApp.PhoneNumberID),
		sl.Secret("access_token", conf.WhatsApp.AccessToken),
	).Info("whatsapp bot initialized")

	hub := ws.NewHub(lg)
	go hub.Run(ctx)
	handler.SetStatusBroadcaster(hub)

	if tgBot != nil {
		handler.SetNotifier(tgBot)
		tgBot.SetStatsProvider(handler)
		go func() {
			if err := tgBot.Start(); err != nil {
				lg.Error("telegram bot error", sl.Err(err))
			}
		}()
	}

	handler.Start()

	server := api.New(conf, lg, handler, waBot, hub)
	go func() {
		if err := server.Run(); err != nil {
			lg.Error("server start", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		lg.With(sl.Err(err)).Error("http server shutdown")
	}
	handler.Stop()
	if tgBot != nil {
		tgBot.Stop()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err = repo.Close(shutdownCtx); err != nil {
		lg.With(sl.Err(err)).Error("repository close")
	}
	lg.Info("service stopped")
}
