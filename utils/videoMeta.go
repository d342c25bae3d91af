package utils

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"gorm.io/datatypes"
)

const oembedEndpoint = "https://www.youtube.com/oembed"

// FetchVideoMeta resolves oEmbed metadata (title, author, thumbnail) for a
// YouTube video URL. Best effort: callers treat a failure as "no metadata",
// never as a request failure.
func FetchVideoMeta(videoURL string) (datatypes.JSON, error) {
	client := resty.New().SetTimeout(5 * time.Second)

	resp, err := client.R().
		SetQueryParams(map[string]string{
			"url":    videoURL,
			"format": "json",
		}).
		Get(oembedEndpoint)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("oembed: status %d for %s", resp.StatusCode(), videoURL)
	}

	return datatypes.JSON(resp.Body()), nil
}
