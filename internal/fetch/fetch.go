// 包 fetch 封装 HTTP 客户端（代理/超时/重试），用于按 URL 拉取导出文档。
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrTooLarge 表示远程文档超过大小上限。
var ErrTooLarge = errors.New("document exceeds size limit")

// Client 为带重试的 HTTP 客户端。
type Client struct {
	http     *http.Client
	retry    int
	maxBytes int64
}

// Options 为客户端构造参数。
type Options struct {
	ProxyHTTP  string
	ProxyHTTPS string
	Timeout    time.Duration
	Retry      int
	MaxBytes   int64
}

// New 创建客户端，支持 http/https 代理与基础超时配置。
func New(opts Options) (*Client, error) {
	for _, p := range []string{opts.ProxyHTTP, opts.ProxyHTTPS} {
		if p == "" {
			continue
		}
		if _, err := url.Parse(p); err != nil {
			return nil, fmt.Errorf("parse proxy %s: %w", p, err)
		}
	}
	transport := &http.Transport{
		Proxy: func(req *http.Request) (*url.URL, error) {
			if req.URL.Scheme == "https" && opts.ProxyHTTPS != "" {
				return url.Parse(opts.ProxyHTTPS)
			}
			if req.URL.Scheme == "http" && opts.ProxyHTTP != "" {
				return url.Parse(opts.ProxyHTTP)
			}
			return http.ProxyFromEnvironment(req)
		},
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	cl := &http.Client{Transport: transport}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	cl.Timeout = opts.Timeout
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 32 << 20
	}
	return &Client{http: cl, retry: opts.Retry, maxBytes: opts.MaxBytes}, nil
}

// IsURL 判断来源是否为 http(s) 地址。
func IsURL(s string) bool {
	ls := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(ls, "http://") || strings.HasPrefix(ls, "https://")
}

// Get 请求带线性回退的重试。
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error
	attempts := c.retry + 1
	for i := 0; i < attempts; i++ {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if reqErr != nil {
			lastErr = fmt.Errorf("new request: %w", reqErr)
			break
		}
		// 部分站点对非浏览器 UA 返回 403；支持环境变量覆盖（WXR2MD_UA）
		ua := os.Getenv("WXR2MD_UA")
		if ua == "" {
			ua = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36"
		}
		req.Header.Set("User-Agent", ua)
		req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5")
		resp, err := c.http.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		if err == nil {
			lastErr = fmt.Errorf("http status: %s", resp.Status)
			if resp.Body != nil {
				resp.Body.Close()
			}
		} else {
			lastErr = err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * 300 * time.Millisecond):
		}
	}
	return nil, lastErr
}

// Fetch 下载完整文档；超过上限返回 ErrTooLarge。
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("GET export %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.ContentLength > c.maxBytes {
		return nil, fmt.Errorf("GET export %s: %w", url, ErrTooLarge)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read export %s: %w", url, err)
	}
	if int64(len(b)) > c.maxBytes {
		return nil, fmt.Errorf("GET export %s: %w", url, ErrTooLarge)
	}
	return b, nil
}
