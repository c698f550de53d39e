package daemon

import (
	"context"
	"log/slog"
	"time"

	sddaemon "github.com/coreos/go-systemd/v22/daemon"
)

func notifyReady(logger *slog.Logger) {
	sent, err := sddaemon.SdNotify(false, sddaemon.SdNotifyReady)
	if err != nil {
		logger.Warn("sd_notify ready", "err", err)
		return
	}
	if sent {
		logger.Debug("notified systemd", "state", "ready")
	}
}

func notifyStopping(logger *slog.Logger) {
	if _, err := sddaemon.SdNotify(false, sddaemon.SdNotifyStopping); err != nil {
		logger.Warn("sd_notify stopping", "err", err)
	}
}

// runWatchdog pings the systemd watchdog at half its interval. It returns
// at once when the unit has no watchdog configured.
func runWatchdog(ctx context.Context, logger *slog.Logger) {
	interval, err := sddaemon.SdWatchdogEnabled(false)
	if err != nil {
		logger.Warn("sd watchdog", "err", err)
		return
	}
	if interval == 0 {
		return
	}

	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sddaemon.SdNotify(false, sddaemon.SdNotifyWatchdog); err != nil {
				logger.Warn("sd watchdog ping", "err", err)
			}
		}
	}
}
