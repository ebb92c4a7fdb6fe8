package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
)

// Dosya adı formatı: 000001_create_walk_tables.up.sql
//   - 6 haneli sıra numarası ya da 14 haneli timestamp
var migrationFilePattern = regexp.MustCompile(`^(\d{6}|\d{14})_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)

// LoadMigrations fsys kökündeki migration dosyalarını okur ve version'a göre sıralar.
// Pattern'e uymayan dosyalar yok sayılır; up dosyası olmayan down dosyası hatadır.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("migration dosyaları okunamadı: %w", err)
	}

	byVersion := make(map[int64]*Migration)
	downs := make(map[int64]string)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := migrationFilePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}

		version, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("geçersiz version %s: %w", matches[1], err)
		}
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("%s okunamadı: %w", entry.Name(), err)
		}

		if matches[3] == string(DirectionDown) {
			downs[version] = string(content)
			continue
		}

		if existing, ok := byVersion[version]; ok {
			return nil, fmt.Errorf("version %d iki kez tanımlı: %s ve %s", version, existing.Name, matches[2])
		}
		byVersion[version] = &Migration{
			Version:  version,
			Name:     matches[2],
			UpSQL:    string(content),
			Checksum: checksum(content),
		}
	}

	for version, sql := range downs {
		m, ok := byVersion[version]
		if !ok {
			return nil, fmt.Errorf("version %d için up dosyası yok", version)
		}
		m.DownSQL = sql
		m.HasDown = true
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
