package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kochabx/pulse/pkg/log"
)

var ErrAlreadyStarted = errors.New("application already started")

// Server 可被应用托管的服务器
type Server interface {
	// Run 启动服务器并阻塞
	Run() error

	// Shutdown 优雅关闭服务器
	Shutdown(ctx context.Context) error
}

// CloseFunc 具有可选超时的关闭函数
type CloseFunc struct {
	Name    string
	Fn      func(context.Context) error
	Timeout time.Duration
}

// Application 管理服务器和关闭函数的生命周期
type Application struct {
	ctx             context.Context
	cancel          context.CancelFunc
	shutdownTimeout time.Duration
	closeTimeout    time.Duration
	signals         []os.Signal
	servers         []Server
	closeFuncs      []CloseFunc
	started         bool
}

type Option func(*Application)

// WithContext 设置应用的根上下文
func WithContext(ctx context.Context) Option {
	return func(app *Application) {
		if ctx != nil {
			app.ctx, app.cancel = context.WithCancel(ctx)
		}
	}
}

// WithShutdownTimeout 设置服务器关闭的超时时间
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(app *Application) {
		if timeout > 0 {
			app.shutdownTimeout = timeout
		}
	}
}

// WithSignals 设置用于优雅关闭的自定义信号
func WithSignals(signals ...os.Signal) Option {
	return func(app *Application) {
		if len(signals) > 0 {
			app.signals = signals
		}
	}
}

// WithServer 向应用添加服务器
func WithServer(server Server) Option {
	return func(app *Application) {
		if server != nil {
			app.servers = append(app.servers, server)
		}
	}
}

// WithClose 添加在关闭期间执行的关闭函数
func WithClose(name string, fn func(context.Context) error, timeout time.Duration) Option {
	return func(app *Application) {
		if fn == nil {
			return
		}
		if timeout == 0 {
			timeout = app.closeTimeout
		}
		app.closeFuncs = append(app.closeFuncs, CloseFunc{Name: name, Fn: fn, Timeout: timeout})
	}
}

// New 使用给定选项创建新的应用实例
func New(options ...Option) *Application {
	app := &Application{
		shutdownTimeout: 30 * time.Second,
		closeTimeout:    30 * time.Second,
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT},
	}

	app.ctx, app.cancel = context.WithCancel(context.Background())

	for _, opt := range options {
		opt(app)
	}

	return app
}

// Start 启动所有服务器并阻塞直到收到关闭信号
func (app *Application) Start() error {
	if app.started {
		return ErrAlreadyStarted
	}
	app.started = true

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, app.signals...)
	defer signal.Stop(sigCh)

	eg, egCtx := errgroup.WithContext(app.ctx)

	for _, server := range app.servers {
		eg.Go(func() error {
			return server.Run()
		})

		eg.Go(func() error {
			<-egCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), app.shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	eg.Go(func() error {
		select {
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
			app.cancel()
			return nil
		case <-egCtx.Done():
			return nil
		}
	})

	err := eg.Wait()
	app.runCloseFuncs()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Stop 主动触发关闭
func (app *Application) Stop() {
	app.cancel()
}

// runCloseFuncs 按注册顺序执行关闭函数
func (app *Application) runCloseFuncs() {
	for _, closer := range app.closeFuncs {
		ctx, cancel := context.WithTimeout(context.Background(), closer.Timeout)

		if err := closer.Fn(ctx); err != nil {
			log.Error().Err(err).Str("name", closer.Name).Msg("close function failed")
		} else {
			log.Debug().Str("name", closer.Name).Msg("close function completed")
		}

		cancel()
	}
}
