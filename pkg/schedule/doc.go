// Package schedule fires rule engine events on recurring schedules.
//
// This package includes:
//   - Schedule interface for defining when an event fires
//   - Every() for fixed-interval schedules
//   - Daily() for daily schedules at a specific time
//   - Weekly() for weekly schedules on a specific day and time
//   - Cron() and ParseCron() for cron expression-based schedules
//   - Scheduler, which fires events on an Engine as they come due
//
// Example:
//
//	s := schedule.New(engine)
//	s.Add("tick", schedule.Every(time.Second), world)
//	s.Add("nightly", schedule.Cron("0 3 * * *"), world)
//	go s.Run(ctx)
package schedule
