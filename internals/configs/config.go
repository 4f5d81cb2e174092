package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret        string
	JWTRefreshSecret string

	// Zona waktu aplikasi. Semua perhitungan "hari ini" & jam periksa kamar
	// WAJIB pakai ini, bukan time.Local (beda zona server = salah hari).
	AppTimeZone string
	AppLoc      *time.Location
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}

	AppTimeZone = GetEnv("APP_TIMEZONE", "Asia/Jakarta")
	loc, err := time.LoadLocation(AppTimeZone)
	if err != nil {
		log.Printf("⚠️ APP_TIMEZONE %q tidak valid, fallback ke UTC: %v", AppTimeZone, err)
		loc = time.UTC
	}
	AppLoc = loc
	log.Printf("✅ Zona waktu aplikasi: %s", AppTimeZone)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func GetEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// =======================
// SCORING (AI) CONFIG
// =======================
// Dipass eksplisit ke ScoringService (bukan global), supaya test bisa
// substitusi konfigurasi deterministik.
type ScoringConfig struct {
	Endpoint        string        // base URL layanan generateContent
	APIKey          string
	Model           string
	Timeout         time.Duration // hard timeout per request
	MaxOutputTokens int           // batas output supaya respons tidak kebablasan
	PassThreshold   int           // skor minimal dinyatakan lulus
	FallbackEnabled bool          // kalau service gagal, pakai skor fallback
	FallbackMin     int           // batas bawah skor fallback
	FallbackMax     int           // batas atas skor fallback
}

func LoadScoringConfig() ScoringConfig {
	return ScoringConfig{
		Endpoint:        GetEnv("SCORING_ENDPOINT", "https://generativelanguage.googleapis.com"),
		APIKey:          GetEnv("SCORING_API_KEY"),
		Model:           GetEnv("SCORING_MODEL", "gemini-1.5-flash"),
		Timeout:         time.Duration(GetEnvInt("SCORING_TIMEOUT_SECONDS", 45)) * time.Second,
		MaxOutputTokens: GetEnvInt("SCORING_MAX_OUTPUT_TOKENS", 256),
		PassThreshold:   GetEnvInt("SCORING_PASS_THRESHOLD", 6),
		FallbackEnabled: GetEnvBool("SCORING_FALLBACK_ENABLED", true),
		FallbackMin:     GetEnvInt("SCORING_FALLBACK_MIN", 6),
		FallbackMax:     GetEnvInt("SCORING_FALLBACK_MAX", 8),
	}
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Info,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	if err != nil {
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	} else if elapsed > l.SlowThreshold {
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	} else {
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
