// internals/helpers/oss/oss_client.go
package oss

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

// batas ukuran upload foto bukti (guard ringan, controller juga cek)
const MaxUploadSize = int64(5 * 1024 * 1024)

/* =======================================================================
   WebP recompress
   Foto bukti disimpan sebagai webp hemat storage; byte ASLI tetap dipakai
   untuk forensik EXIF & scoring (konversi membuang metadata!).
======================================================================= */

type WebPOptions struct {
	MaxW    int     // batas lebar (resize keep-aspect)
	MaxH    int     // batas tinggi
	Quality float32 //
}

func DefaultWebPOptions() WebPOptions {
	return WebPOptions{MaxW: 1600, MaxH: 1600, Quality: 80}
}

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	var (
		img image.Image
		err error
	)
	switch {
	case strings.Contains(ct, "jpeg"):
		img, err = jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		img, err = png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		img, err = webp.Decode(bytes.NewReader(all))
	default:
		// fallback by extension
		ext := strings.ToLower(filepath.Ext(filename))
		switch ext {
		case ".jpg", ".jpeg":
			img, err = jpeg.Decode(bytes.NewReader(all))
		case ".png":
			img, err = png.Decode(bytes.NewReader(all))
		case ".webp":
			img, err = webp.Decode(bytes.NewReader(all))
		default:
			return nil, fmt.Errorf("format tidak didukung: %s / %s", ct, ext)
		}
	}
	return img, err
}

// Resize keep-aspect. Pakai CatmullRom (kualitas bagus).
func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW > 0 && w > maxW) || (maxH > 0 && h > maxH) {
		scale := 1.0
		if maxW > 0 {
			scale = math.Min(scale, float64(maxW)/float64(w))
		}
		if maxH > 0 {
			scale = math.Min(scale, float64(maxH)/float64(h))
		}
		nw := int(math.Round(float64(w) * scale))
		nh := int(math.Round(float64(h) * scale))
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		return dst
	}
	return src
}

// ConvertBytesToWebP: decode → downscale → encode webp lossy.
func ConvertBytesToWebP(all []byte, filename string, opt WebPOptions) ([]byte, error) {
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}
	img = downscaleIfNeeded(img, opt.MaxW, opt.MaxH)
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: opt.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

/* =======================================================================
   OSS Service
======================================================================= */

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string
}

func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := getEnv("ALI_OSS_ENDPOINT")
	ak := getEnv("ALI_OSS_ACCESS_KEY")
	sk := getEnv("ALI_OSS_SECRET_KEY")
	sts := getEnv("ALI_OSS_SECURITY_TOKEN")
	bucketName := getEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if sts != "" {
		client, err = oss.New(endpoint, ak, sk, oss.SecurityToken(sts))
	} else {
		client, err = oss.New(endpoint, ak, sk)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// Verifikasi ringan lokasi bucket
	if loc, err := client.GetBucketLocation(bucketName); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 && se.Code == "AccessDenied" {
			log.Printf("[OSS] warn: skip location check due to AccessDenied (bucket=%s). Continuing.", bucketName)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", bucketName, loc)
	}

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		Prefix:     strings.Trim(prefix, "/"),
	}, nil
}

// UploadBytesAsWebP: recompress ke webp lalu simpan; return public URL.
func (s *OSSService) UploadBytesAsWebP(ctx context.Context, all []byte, filename, keyPrefix string) (string, error) {
	if int64(len(all)) > MaxUploadSize {
		return "", fmt.Errorf("file too large (max %d bytes)", MaxUploadSize)
	}

	webpData, err := ConvertBytesToWebP(all, filename, DefaultWebPOptions())
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	key := s.buildObjectKey(base + ".webp")
	if keyPrefix != "" {
		key = strings.Trim(keyPrefix, "/") + "/" + key
	}

	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType("image/webp"),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.Bucket.PutObject(key, bytes.NewReader(webpData), opts...); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

func (s *OSSService) DeleteObject(ctx context.Context, key string) error {
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key, err := ExtractKeyFromPublicURL(publicURL)
	if err != nil {
		return err
	}
	return s.DeleteObject(ctx, key)
}

/* =======================================================================
   Public URL & Key utils
======================================================================= */

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if base := getEnv("ALI_OSS_PUBLIC_BASE"); base != "" {
		return strings.TrimRight(base, "/") + "/" + key
	}
	if s.Endpoint == "" || s.BucketName == "" {
		return ""
	}
	end := s.Endpoint
	end = strings.TrimPrefix(end, "https://")
	end = strings.TrimPrefix(end, "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

func ExtractKeyFromPublicURL(publicURL string) (string, error) {
	if publicURL == "" {
		return "", fmt.Errorf("empty url")
	}
	if base := getEnv("ALI_OSS_PUBLIC_BASE"); base != "" {
		base = strings.TrimRight(base, "/") + "/"
		if strings.HasPrefix(publicURL, base) {
			return strings.TrimPrefix(publicURL, base), nil
		}
	}
	u := publicURL
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.Index(u, "/"); i >= 0 {
		return u[i+1:], nil
	}
	return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
}

func (s *OSSService) buildObjectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, ext)
	if base == "" {
		base = "file"
	}
	ts := time.Now().Format("20060102_150405")
	rand6 := randHex(3)

	prefix := s.Prefix
	if prefix != "" {
		prefix += "/"
	}
	return fmt.Sprintf("%s%s_%s_%s%s", prefix, slugify(base), ts, rand6, ext)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer(" ", "-", "_", "-", "—", "-", "–", "-")
	s = r.Replace(s)
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return "file"
	}
	return s
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
