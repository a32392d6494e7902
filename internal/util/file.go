package util

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// GenerateUniqueFilename 基于原始文件名生成唯一且可安全用于 URL 的文件名
func GenerateUniqueFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	name := filepath.Base(originalFilename)
	name = sanitizeBaseName(name[:len(name)-len(ext)])
	if name == "" {
		name = "file"
	}

	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	return name + "_" + timestamp + ext
}

// sanitizeBaseName 只保留字母、数字、横线和下划线，其余替换为横线
func sanitizeBaseName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	return strings.Trim(mapped, "-")
}
