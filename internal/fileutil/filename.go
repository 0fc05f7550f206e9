package fileutil

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	maxFilenameLength      = 200
	maxEpisodeTitleLength  = 50
	truncatedEpisodeLength = 30
)

type RecordingName struct {
	Title           string
	EpisodeID       string
	EpisodeTitle    string
	OriginalAirDate string
	Date            string
	Time            string
	ChannelNumber   string
}

// "Title - S01E02 - Episode - Aired-2001-01-01 - 2025-10-06 - 1900 - Ch7.1.mp4"
func BuildRecordingFilename(n RecordingName, ext string) string {
	title := SanitizeName(n.Title)
	if title == "" {
		title = "Unknown Show"
	}
	parts := []string{title}

	if n.EpisodeID != "" {
		parts = append(parts, SanitizeName(n.EpisodeID))
	}

	episodeIndex := -1
	if episode := SanitizeName(n.EpisodeTitle); episode != "" && len(episode) < maxEpisodeTitleLength {
		episodeIndex = len(parts)
		parts = append(parts, episode)
	}

	if n.OriginalAirDate != "" && n.OriginalAirDate != n.Date {
		parts = append(parts, "Aired-"+SanitizeName(n.OriginalAirDate))
	}
	if n.Date != "" {
		parts = append(parts, n.Date)
	}
	if clock := strings.ReplaceAll(n.Time, ":", ""); clock != "" {
		parts = append(parts, SanitizeName(clock))
	}
	if n.ChannelNumber != "" {
		parts = append(parts, "Ch"+SanitizeName(n.ChannelNumber))
	}

	ext = "." + strings.TrimPrefix(ext, ".")
	name := strings.Join(parts, " - ") + ext
	if len(name) <= maxFilenameLength {
		return name
	}

	// まずはエピソードタイトルを詰める
	if episodeIndex >= 0 && len(parts[episodeIndex]) > truncatedEpisodeLength {
		parts[episodeIndex] = truncate(parts[episodeIndex], truncatedEpisodeLength) + "..."
		name = strings.Join(parts, " - ") + ext
	}
	// それでも長ければタイトルを削る
	if over := len(name) - maxFilenameLength; over > 0 {
		keep := len(parts[0]) - over
		if keep < 1 {
			keep = 1
		}
		parts[0] = strings.TrimSpace(truncate(parts[0], keep))
		name = strings.Join(parts, " - ") + ext
	}
	return name
}

// 拡張子を差し替える
func ReplaceExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + "." + strings.TrimPrefix(ext, ".")
}

// "foo.mp4" -> "foo.metadata.json"
func MetadataName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".metadata.json"
}

// マルチバイト文字の途中で切らない
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
