// Package logging provides structured logging using uber/zap.
//
// Production builds log JSON for machine parsing; development builds log
// colored console output. Domain packages receive a *zap.Logger, usually a
// child tagged with the desktop session id.
//
//	logger, err := logging.New(logging.Config{Level: "debug", Development: true})
//	router.Use(logger.GinMiddleware())
//	desktops, err := desktop.NewManager(cat, cfg, logger.Named("desktop"))
package logging
