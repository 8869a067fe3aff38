// Package web is a thin layer over gin that lets handlers return errors and
// carry a request scoped context.Context that middleware can enrich.
package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler handles a request. A returned error has already been written to
// the client by RespondError; it is only logged by the App.
type Handler func(c *Context) error

// Middleware wraps a Handler.
type Middleware func(Handler) Handler

// App is the entry point into the application. It embeds gin so the router
// can still register plain gin handlers and middleware.
type App struct {
	*gin.Engine
	log *log.Logger
	mw  []Middleware
}

// NewApp creates an App with gin's recovery and request logging installed.
func NewApp(log *log.Logger, mw ...Middleware) *App {
	engine := gin.New()
	engine.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery())

	return &App{
		Engine: engine,
		log:    log,
		mw:     mw,
	}
}

// Handle registers handler for method and path. Route middleware runs
// inside the application wide middleware.
func (a *App) Handle(method, path string, handler Handler, mw ...Middleware) {
	handler = wrapMiddleware(mw, handler)
	handler = wrapMiddleware(a.mw, handler)

	a.Engine.Handle(method, path, func(gc *gin.Context) {
		c := &Context{
			Context: gc,
			Ctx:     gc.Request.Context(),
		}

		if err := handler(c); err != nil {
			a.log.Printf("%s %s : ERROR : %v", method, path, err)
		}
	})
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodGet, path, handler, mw...)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodPost, path, handler, mw...)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodPut, path, handler, mw...)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodPatch, path, handler, mw...)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodDelete, path, handler, mw...)
}

// wrapMiddleware applies mw so that the first element is the outermost.
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			handler = mw[i](handler)
		}
	}

	return handler
}
