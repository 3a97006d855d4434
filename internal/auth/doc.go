// Package auth provides the session gate in front of the catalog's
// administrative endpoints.
//
// A single administrative credential is injected via configuration; login
// exchanges it for a server-side session tracked in SQLite and referenced by
// an HttpOnly cookie. The session token is random and expiring, replacing the
// static marker value older frontend builds relied on.
//
// # Configuration
//
//	ADMIN_USERNAME=<username>        # Required to enable login
//	ADMIN_PASSWORD=<password>        # Required to enable login
//	SESSION_LIFETIME=120h            # Session duration (5 days)
//	SESSION_SECURE_COOKIES=true      # HTTPS-only cookies
//
// # Usage
//
// Initialize in entrypoint:
//
//	service := auth.NewService(cfg.Admin)
//	sessions, err := auth.NewSessionManager(sqlDB, cfg.Session)
//	router.Use(sessions.SessionLoadSave())
//
// Protect routes:
//
//	protected.Use(auth.RequireAuth(sessions))
package auth
