package application

import (
	"embed"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/lumen-rp/cadhub/pkg/eventbus"
)

// Controller is a routable unit registered by a module.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module wires a feature area (repositories, services, controllers) into the app.
type Module interface {
	Name() string
	Register(app Application) error
}

// Application is the registry shared by all modules.
type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger
	Bundle() *i18n.Bundle

	RegisterControllers(controllers ...Controller)
	Controllers() []Controller

	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}

	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	Middleware() []mux.MiddlewareFunc

	RegisterSchema(fs *embed.FS)
	Schemas() []*embed.FS

	RegisterLocaleFiles(fs *embed.FS)
	LocaleFiles() []*embed.FS

	// OnShutdown registers a hook run after the HTTP server has drained.
	OnShutdown(fn func())
	ShutdownHooks() []func()
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
	Bundle   *i18n.Bundle
}

func LoadBundle() *i18n.Bundle {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	return bundle
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:     opts.Pool,
		eventBus: opts.EventBus,
		logger:   opts.Logger,
		bundle:   opts.Bundle,
		services: map[reflect.Type]interface{}{},
	}
}

type application struct {
	pool        *pgxpool.Pool
	eventBus    eventbus.EventBus
	logger      *logrus.Logger
	bundle      *i18n.Bundle
	controllers []Controller
	services    map[reflect.Type]interface{}
	middleware  []mux.MiddlewareFunc
	schemas     []*embed.FS
	locales     []*embed.FS
	shutdown    []func()
}

func (a *application) DB() *pgxpool.Pool {
	return a.pool
}

func (a *application) EventPublisher() eventbus.EventBus {
	return a.eventBus
}

func (a *application) Logger() *logrus.Logger {
	return a.logger
}

func (a *application) Bundle() *i18n.Bundle {
	return a.bundle
}

func (a *application) RegisterControllers(controllers ...Controller) {
	a.controllers = append(a.controllers, controllers...)
}

func (a *application) Controllers() []Controller {
	return a.controllers
}

func (a *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		a.services[reflect.TypeOf(service).Elem()] = service
	}
}

// Service looks up a registered service by the type of the given zero value.
// Panics when the service was never registered, mirroring a programming error.
func (a *application) Service(service interface{}) interface{} {
	svc, ok := a.services[reflect.TypeOf(service)]
	if !ok {
		panic(fmt.Sprintf("service %T not registered", service))
	}
	return svc
}

func (a *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	a.middleware = append(a.middleware, middleware...)
}

func (a *application) Middleware() []mux.MiddlewareFunc {
	return a.middleware
}

func (a *application) RegisterSchema(fs *embed.FS) {
	a.schemas = append(a.schemas, fs)
}

func (a *application) Schemas() []*embed.FS {
	return a.schemas
}

func (a *application) RegisterLocaleFiles(fs *embed.FS) {
	a.locales = append(a.locales, fs)
}

func (a *application) LocaleFiles() []*embed.FS {
	return a.locales
}

func (a *application) OnShutdown(fn func()) {
	a.shutdown = append(a.shutdown, fn)
}

func (a *application) ShutdownHooks() []func() {
	return a.shutdown
}
