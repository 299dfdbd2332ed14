package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/config"
)

// captureWriter copies the response body while forwarding it to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    limit  int
    over   bool
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
    if !cw.over {
        if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
            cw.over = true
            cw.buf.Reset()
        } else {
            cw.buf.Write(b)
        }
    }
    return cw.ResponseWriter.Write(b)
}

// cacheKey is keyed on the concrete URL, not the route template, so that
// /catways/3 and /catways/4 never share an entry.
func cacheKey(cfg config.CacheConfig, r *http.Request) string {
    sum := sha1.Sum([]byte(r.Method + " " + r.URL.Path + "?" + r.URL.RawQuery))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    hdrJSON, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdrJSON)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    copy(out[8:], hdrJSON)
    copy(out[8+len(hdrJSON):], body)
    return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return 0, nil, nil, false
    }
    header = make(http.Header)
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, header, bs[8+hlen:], true
}

// skipped on replay: recomputed per request
var volatileHeaders = map[string]bool{
    "Content-Length":        true,
    "X-Request-Id":          true,
    "Authorization":         true,
    "X-Cache":               true,
    "X-Ratelimit-Limit":     true,
    "X-Ratelimit-Remaining": true,
}

// Cache serves successful reads of the wrapped routes from Redis.
func Cache(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    if log == nil {
        log = zap.NewNop()
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            if !cfg.Methods[strings.ToUpper(req.Method)] {
                return next(c)
            }
            key := cacheKey(cfg, req)

            if bs, err := rdb.Get(req.Context(), key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    for k, vals := range hdr {
                        if volatileHeaders[http.CanonicalHeaderKey(k)] {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    _, _ = c.Response().Write(body)
                    return nil
                }
            } else if err != redis.Nil {
                log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.over {
                return nil
            }
            payload, err := encodePayload(cw.status, c.Response().Header().Clone(), cw.buf.Bytes())
            if err != nil {
                return nil
            }
            ctx, cancel := context.WithTimeout(context.Background(), time.Second)
            defer cancel()
            if err := rdb.Set(ctx, key, payload, cfg.TTL).Err(); err != nil {
                log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
            }
            return nil
        }
    }
}

// InvalidateCache drops every cached read after a successful write on the
// wrapped routes.
func InvalidateCache(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    if log == nil {
        log = zap.NewNop()
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            err := next(c)
            switch c.Request().Method {
            case http.MethodGet, http.MethodHead, http.MethodOptions:
                return err
            }
            if err == nil && c.Response().Status < http.StatusBadRequest {
                if n, ferr := FlushCache(c.Request().Context(), cfg, rdb); ferr != nil {
                    log.Warn("cache invalidation failed", zap.Error(ferr))
                } else if n > 0 {
                    log.Debug("cache invalidated", zap.Int("keys", n))
                }
            }
            return err
        }
    }
}

// FlushCache deletes every key under cfg.Prefix and returns how many were
// removed.
func FlushCache(ctx context.Context, cfg config.CacheConfig, rdb *redis.Client) (int, error) {
    var (
        cursor uint64
        total  int
    )
    for {
        keys, next, err := rdb.Scan(ctx, cursor, cfg.Prefix+":*", 100).Result()
        if err != nil {
            return total, err
        }
        if len(keys) > 0 {
            if err := rdb.Del(ctx, keys...).Err(); err != nil {
                return total, err
            }
            total += len(keys)
        }
        if next == 0 {
            return total, nil
        }
        cursor = next
    }
}
