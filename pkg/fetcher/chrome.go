package fetcher

import (
	"os"
	"runtime"

	"restockwatch/pkg/logger"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

var chromeCandidates = map[string][]string{
	"darwin": {
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
	},
	"linux": {
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	},
	"windows": {
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	},
}

// ResolveChromePath returns configured if it exists, else the first known
// install location for the current OS, else "" (chromedp then searches PATH).
func ResolveChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
		logger.Warn("Configured chrome path not found, auto-detecting", zap.String("path", configured))
	}

	paths := chromeCandidates[runtime.GOOS]
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			paths = append(paths, local+`\Google\Chrome\Application\chrome.exe`)
		}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// allocatorOptions returns the exec allocator flags for opts.
func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	out := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("lang", opts.AcceptLanguage),
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(1280, 900),
	}

	if runtime.GOOS == "linux" {
		// containers usually lack a setuid sandbox helper
		out = append(out,
			chromedp.Flag("disable-setuid-sandbox", true),
			chromedp.Flag("disable-software-rasterizer", true),
		)
	}

	if opts.Headless {
		out = append(out,
			chromedp.Headless,
			chromedp.Flag("disable-background-networking", true),
			chromedp.Flag("disable-renderer-backgrounding", true),
			chromedp.Flag("disable-sync", true),
			chromedp.Flag("mute-audio", true),
		)
	} else {
		out = append(out, chromedp.Flag("headless", false))
	}

	if path := ResolveChromePath(opts.ChromePath); path != "" {
		logger.Debug("Using chrome", zap.String("path", path))
		out = append(out, chromedp.ExecPath(path))
	}
	return out
}
