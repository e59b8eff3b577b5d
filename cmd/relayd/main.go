// relayd is the demo relay daemon: a gin server hosting the websocket
// endpoint with JWT authentication, the built-in protocol handlers and an
// optional redis presence mirror.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"relaykit/logger"
	"relaykit/middleware"
	"relaykit/server"
	"relaykit/server/handlers"
	"relaykit/server/storage"
	"relaykit/tools/ids"
	"relaykit/tools/security"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	redisAddr := flag.String("redis", "", "redis address for the presence mirror (empty disables)")
	nodeID := flag.Int64("node", 1, "snowflake node id")
	devToken := flag.Bool("dev-token", false, "expose POST /token for issuing dev tokens")
	flag.Parse()
	defer logger.Sync()

	secret := []byte(os.Getenv("RELAY_JWT_SECRET"))
	if len(secret) == 0 {
		logger.Warnf("[relayd] RELAY_JWT_SECRET not set, using insecure dev secret")
		secret = []byte("relay-dev-secret")
	}

	ids.SetNodeID(*nodeID)

	var mirror *storage.PresenceMirror
	if *redisAddr != "" {
		m, err := storage.NewPresenceMirror(storage.PresenceConfig{Addr: *redisAddr})
		if err != nil {
			logger.Errorf("[relayd] presence mirror: %v", err)
			os.Exit(1)
		}
		defer m.Close()
		mirror = m
	}

	reg := server.NewRegistry()
	srv, err := server.New(server.Config{},
		reg,
		handlers.NewAuth(reg, handlers.TokenValidator(security.Validator(secret))),
		handlers.NewPresence(reg, mirror),
		handlers.NewMessaging(reg),
	)
	if err != nil {
		logger.Errorf("[relayd] init: %v", err)
		os.Exit(1)
	}
	defer srv.Close()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS())

	r.GET("/ws", srv.HandleWS)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "sessions": reg.Count()})
	})

	if *devToken {
		r.POST("/token", func(c *gin.Context) {
			var req struct {
				UserID string `json:"userId"`
			}
			if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
				return
			}
			token, exp, err := security.Generate(security.DefaultOptions(secret), req.UserID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token, "expireAt": exp.UnixMilli()})
		})
	}

	logger.Infof("[relayd] listening on %s", *addr)
	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := httpSrv.ListenAndServe(); err != nil {
		logger.Errorf("[relayd] serve: %v", err)
		os.Exit(1)
	}
}
