package service

import "strings"

// KlineTopic — топик вида "kline.{interval}.{symbol}".
func KlineTopic(interval, symbol string) string {
	return "kline." + interval + "." + symbol
}

// SymbolFromTopic — символ из топика (последний сегмент).
func SymbolFromTopic(topic string) string {
	i := strings.LastIndexByte(topic, '.')
	if i < 0 {
		return topic
	}
	return topic[i+1:]
}

// SplitTopics режет список топиков на n примерно равных групп —
// по группе на ws-соединение.
func SplitTopics(topics []string, n int) [][]string {
	if n <= 1 || len(topics) <= 1 {
		return [][]string{topics}
	}
	if n > len(topics) {
		n = len(topics)
	}

	size := (len(topics) + n - 1) / n
	out := make([][]string, 0, n)
	for start := 0; start < len(topics); start += size {
		end := start + size
		if end > len(topics) {
			end = len(topics)
		}
		out = append(out, topics[start:end])
	}
	return out
}
