package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/steamkeeper/internal/netx"
)

// ErrTooLarge is returned for files above the download limit.
var ErrTooLarge = netx.ErrTooLarge

// Downloader fetches the content of an uploaded Telegram file.
type Downloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// HTTPDownloader resolves the file URL through the Bot API and fetches it.
type HTTPDownloader struct {
	Bot     API
	Client  *http.Client
	MaxSize int64
}

func NewHTTPDownloader(bot API, client *http.Client, maxSize int64) *HTTPDownloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPDownloader{Bot: bot, Client: client, MaxSize: maxSize}
}

func (h *HTTPDownloader) Download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := h.Bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}

	data, err := netx.Fetch(ctx, h.Client, url, h.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	return data, nil
}
