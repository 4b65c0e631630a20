// Package jobs provides scheduled background tasks for the order service.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field in the schedule.
//
// # Available Jobs
//
// StagingSweepJob purges staged payment intents that expired without a
// callback. It is only needed with the in-process staging store.
//
// # Usage
//
//	sweep := jobs.NewStagingSweepJob(memoryStore, "", clock.NewSystem(), m, logger)
//	manager := jobs.NewJobManager(logger, sweep)
//	if err := manager.StartAll(); err != nil {
//		log.Fatal(err)
//	}
//	defer manager.StopAll()
package jobs
