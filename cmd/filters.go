package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/wasm-image-filters/internal/canvas"
	"github.com/rm-hull/wasm-image-filters/internal/canvas/stage"
)

// reserved query parameters that are not passed to the filter
var reservedParams = map[string]bool{"format": true, "seed": true}

type filterInfo struct {
	Name   string   `json:"name"`
	Params []string `json:"params"`
}

// RegisterFilterRoutes mounts the filter endpoints on r. Uploads larger than
// maxUploadBytes are rejected with 413.
func RegisterFilterRoutes(r gin.IRouter, maxUploadBytes int64) {
	v1 := r.Group("/v1/filters")
	v1.GET("", listFilters)
	v1.POST("/:name", applyFilter(maxUploadBytes))
}

func listFilters(c *gin.Context) {
	names := stage.Names()
	infos := make([]filterInfo, 0, len(names))
	for _, name := range names {
		params := stage.Keys(name)
		if params == nil {
			params = []string{}
		}
		infos = append(infos, filterInfo{Name: name, Params: params})
	}
	c.JSON(http.StatusOK, gin.H{"filters": infos})
}

func applyFilter(maxUploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		format, err := canvas.ParseFormat(c.Query("format"))
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}

		rng, err := requestRand(c.Query("seed"))
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}

		values := make(map[string]string)
		for k, v := range c.Request.URL.Query() {
			if !reservedParams[k] && len(v) > 0 {
				values[k] = v[0]
			}
		}

		filter, err := stage.Build(c.Param("name"), values, rng)
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
		img, err := decodeUpload(c)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				abort(c, http.StatusRequestEntityTooLarge, fmt.Errorf("image exceeds %d bytes", tooLarge.Limit))
				return
			}
			abort(c, http.StatusBadRequest, fmt.Errorf("failed to decode image: %w", err))
			return
		}

		if err := filter.Process(img); err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}

		var buf bytes.Buffer
		if err := img.Write(&buf, format); err != nil {
			abort(c, http.StatusInternalServerError, fmt.Errorf("failed to encode image: %w", err))
			return
		}
		c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
	}
}

// decodeUpload reads the image from a multipart "image" field, or from the
// raw request body for any other content type.
func decodeUpload(c *gin.Context) (*canvas.Canvas, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = f.Close()
		}()
		return canvas.NewFromReader(f)
	}

	// read fully first so an oversized body surfaces as *http.MaxBytesError
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	return canvas.NewFromReader(bytes.NewReader(data))
}

func requestRand(seed string) (*rand.Rand, error) {
	if seed == "" {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), nil
	}
	n, err := strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q: %w", seed, err)
	}
	return rand.New(rand.NewPCG(n, n)), nil
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
