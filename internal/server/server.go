package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"anoa.com/squadhub/internal/config"
	"anoa.com/squadhub/internal/middleware"
	"anoa.com/squadhub/pkg/push"

	attendanceHttp "anoa.com/squadhub/internal/modules/attendance/delivery/http"
	attendanceRepo "anoa.com/squadhub/internal/modules/attendance/repository"
	attendanceService "anoa.com/squadhub/internal/modules/attendance/service"

	clubHttp "anoa.com/squadhub/internal/modules/club/delivery/http"
	clubRepo "anoa.com/squadhub/internal/modules/club/repository"
	clubService "anoa.com/squadhub/internal/modules/club/service"

	notiHttp "anoa.com/squadhub/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/squadhub/internal/modules/notification/repository"
	notifService "anoa.com/squadhub/internal/modules/notification/service"

	postHttp "anoa.com/squadhub/internal/modules/post/delivery/http"
	postRepo "anoa.com/squadhub/internal/modules/post/repository"
	postService "anoa.com/squadhub/internal/modules/post/service"

	profileHttp "anoa.com/squadhub/internal/modules/profile/delivery/http"
	profileRepo "anoa.com/squadhub/internal/modules/profile/repository"
	profileService "anoa.com/squadhub/internal/modules/profile/service"

	relationHttp "anoa.com/squadhub/internal/modules/relation/delivery/http"
	relationRepo "anoa.com/squadhub/internal/modules/relation/repository"
	relationService "anoa.com/squadhub/internal/modules/relation/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	httpServer  *http.Server
}

// route is one entry of the API table; paths are relative to /api.
type route struct {
	method  string
	path    string
	handler gin.HandlerFunc
}

// NewServer wires every module. redisClient and pusher may be nil, which disables realtime
// delivery and rate limiting, or push respectively.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, pusher *push.FCMSender) *Server {
	// Profiles
	profileRepository := profileRepo.NewProfileRepository(db)
	profileSvc := profileService.NewProfileService(profileRepository, cfg.DefaultLanguage)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	// Notification Module
	var pushSender notifService.Pusher
	if pusher != nil {
		pushSender = pusher
	}
	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(
		notificationRepository,
		notifService.NewRedisPublisher(redisClient),
		pushSender,
		profileRepository,
	)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient)

	relationRepository := relationRepo.NewRelationRepository(db)
	relationSvc := relationService.NewRelationService(relationRepository, notificationSvc, profileRepository)
	relationHandler := relationHttp.NewRelationHandler(relationSvc)

	postRepository := postRepo.NewPostRepository(db)
	postSvc := postService.NewPostService(postRepository, relationRepository, profileRepository, notificationSvc, redisClient, cfg.RateLimitComment)
	postHandler := postHttp.NewPostHandler(postSvc)

	clubRepository := clubRepo.NewClubRepository(db)
	clubSvc := clubService.NewClubService(clubRepository, relationRepository, profileRepository, notificationSvc, redisClient, cfg.RateLimitBroadcast)
	clubHandler := clubHttp.NewClubHandler(clubSvc)

	attendanceRepository := attendanceRepo.NewAttendanceRepository(db)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepository, clubRepository, profileRepository)
	attendanceHandler := attendanceHttp.NewAttendanceHandler(attendanceSvc)

	routes := []route{
		// Profile
		{http.MethodGet, "/profile/me", profileHandler.GetCurrentProfile},
		{http.MethodPut, "/profile/me", profileHandler.UpdateProfile},

		// Notifications
		{http.MethodGet, "/notifications", notificationHandler.GetNotifications},
		{http.MethodGet, "/notifications/unread-count", notificationHandler.UnreadCount},
		{http.MethodPost, "/notifications/mark-read", notificationHandler.MarkAsRead},
		{http.MethodPost, "/notifications/mark-all-read", notificationHandler.MarkAllAsRead},
		{http.MethodGet, "/notifications/settings", notificationHandler.GetSettings},
		{http.MethodPut, "/notifications/settings", notificationHandler.UpdateSettings},
		{http.MethodGet, "/notifications/ws", notificationHandler.Stream},

		// Relations
		{http.MethodPost, "/relations/toggle", relationHandler.Toggle},
		{http.MethodGet, "/relations/status", relationHandler.Status},

		// Feed
		{http.MethodPost, "/posts", postHandler.CreatePost},
		{http.MethodGet, "/posts/:post_id", postHandler.GetPostByID},
		{http.MethodPost, "/posts/:post_id/comments", postHandler.CreateComment},
		{http.MethodGet, "/posts/:post_id/comments", postHandler.GetComments},

		// Clubs, matches and market
		{http.MethodPost, "/clubs", clubHandler.CreateClub},
		{http.MethodPost, "/clubs/:club_id/members", clubHandler.AddMember},
		{http.MethodPost, "/clubs/:club_id/news", clubHandler.PublishNews},
		{http.MethodPost, "/clubs/:club_id/matches", clubHandler.CreateMatch},
		{http.MethodPost, "/matches/:match_id/updates", clubHandler.PostMatchUpdate},
		{http.MethodPost, "/market/players", clubHandler.ListPlayer},

		// Attendance
		{http.MethodPost, "/clubs/:club_id/trainings", attendanceHandler.CreateTraining},
		{http.MethodPost, "/attendance/:training_id/:player_id", attendanceHandler.SetStatus},
		{http.MethodGet, "/attendance/:training_id", attendanceHandler.Summary},
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")
	api.Use(authMiddleware.RequireAuth())
	for _, r := range routes {
		api.Handle(r.method, r.path, r.handler)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", addr).Info("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
