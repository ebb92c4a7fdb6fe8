// internal/migration/types.go
package migration

import (
	"errors"
	"time"
)

// Direction migration yönü
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// HealthStatus migration sisteminin genel durumu
type HealthStatus string

const (
	StatusHealthy HealthStatus = "healthy" // hepsi uygulanmış
	StatusWarning HealthStatus = "warning" // pending migration var
	StatusError   HealthStatus = "error"   // checksum uyuşmazlığı
)

var (
	ErrChecksumMismatch = errors.New("applied migration was modified")
	ErrNoDownFile       = errors.New("migration has no down file")
)

// Migration tek bir versiyonlu şema değişikliği
type Migration struct {
	Version   int64      `json:"version"`
	Name      string     `json:"name"`
	UpSQL     string     `json:"-"`
	DownSQL   string     `json:"-"`
	Checksum  string     `json:"checksum"` // up dosyasının sha256'sı
	HasDown   bool       `json:"hasDown"`
	Applied   bool       `json:"applied"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
}

// Status uygulanan ve bekleyen migration'ların özeti
type Status struct {
	CurrentVersion int64        `json:"currentVersion"`
	Migrations     []Migration  `json:"migrations"`
	AppliedCount   int          `json:"appliedCount"`
	PendingCount   int          `json:"pendingCount"`
	ChecksumValid  bool         `json:"checksumValid"`
	Health         HealthStatus `json:"health"`
}

// Result tek migration çalıştırmasının sonucu
type Result struct {
	Version   int64         `json:"version"`
	Name      string        `json:"name"`
	Direction Direction     `json:"direction"`
	Duration  time.Duration `json:"duration"`
}

// appliedMigration tracking tablosundaki satır
type appliedMigration struct {
	Version   int64
	Name      string
	Checksum  string
	AppliedAt time.Time
}
