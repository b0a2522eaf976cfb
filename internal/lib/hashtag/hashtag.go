// Package hashtag извлекает хэштеги из текста публикаций.
package hashtag

import "regexp"

var tagRe = regexp.MustCompile(`#\w+`)

// Extract возвращает хэштеги из текста без символа '#', в порядке
// появления. Повторы не удаляются. Для текста без хэштегов возвращает
// пустой срез.
func Extract(text string) []string {
	matches := tagRe.FindAllString(text, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1:])
	}
	return tags
}
