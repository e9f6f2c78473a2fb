package cache

import "fmt"

const KeyEvents = "events"

func KeyCapture(slug string) string {
	return fmt.Sprintf("capture:%s", slug)
}
