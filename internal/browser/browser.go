package browser

import (
	"fmt"
	"log/slog"
	"time"

	"fxsheet/internal/session"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultUserAgent 与会话录制时使用的 UA 保持一致，否则 cookie 容易失效
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"

// Config 浏览器启动配置
type Config struct {
	Headless   bool
	ProxyURL   string
	BrowserBin string
	NoSandbox  bool
	SlowMotion time.Duration // 仅用于人工交互模式
	UserAgent  string
	Width      int
	Height     int
}

// Browser 封装 rod.Browser 实例
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      Config
}

// New 启动浏览器并建立连接
func New(cfg Config) (*Browser, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg.Width, cfg.Height = 1280, 800
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)
	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}

	// 隐藏自动化特征
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	slog.Debug("browser launched", "controlURL", controlURL, "headless", cfg.Headless)

	b := rod.New().ControlURL(controlURL)
	if cfg.SlowMotion > 0 {
		b = b.SlowMotion(cfg.SlowMotion)
	}
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{
		browser:  b,
		launcher: l,
		cfg:      cfg,
	}, nil
}

// Rod 返回底层 rod.Browser
func (b *Browser) Rod() *rod.Browser {
	return b.browser
}

// LoadSession 把会话 cookie 写入浏览器，必须在导航之前调用
func (b *Browser) LoadSession(state *session.State) error {
	if state == nil || len(state.Cookies) == 0 {
		return nil
	}
	if err := b.browser.SetCookies(state.CookieParams()); err != nil {
		return fmt.Errorf("failed to set session cookies: %w", err)
	}
	slog.Debug("session cookies loaded", "count", len(state.Cookies))
	return nil
}

// Session 读取浏览器当前的全部 cookie
func (b *Browser) Session() (*session.State, error) {
	cookies, err := b.browser.GetCookies()
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}
	return session.FromBrowser(cookies), nil
}

// NewPage 创建新页面，并注入 stealth 脚本、UA 和视口
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.cfg.UserAgent}); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("failed to set user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.cfg.Width,
		Height:            b.cfg.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}
	return page, nil
}

// Close 关闭浏览器并清理资源
func (b *Browser) Close() error {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return err
		}
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return nil
}
