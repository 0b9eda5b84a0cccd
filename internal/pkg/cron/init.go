package cron

import log "log/slog"

// InitCron 注册对账任务并启动调度，注册失败时不启动
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		log.Error("register cron jobs failed", "err", err)
		return err
	}
	mgr.Start()
	log.Info("Cron Jobs started", "entries", len(mgr.engine.Entries()))
	return nil
}
