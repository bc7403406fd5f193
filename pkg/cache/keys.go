package cache

import (
	"fmt"
)

// pub/sub channel carrying output notifications for one control.
func ControlOutputsChannel(controlID string) string {
	return fmt.Sprintf("control:%s:outputs", controlID)
}
