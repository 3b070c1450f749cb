// Package watch re-runs validation when inputs change or on a schedule.
//
// FileWatcher uses fsnotify to watch documents and rule-script
// directories, debouncing bursts of events into a single run. Scheduler
// uses cron expressions for periodic runs. Both call a Job; wrap it with
// Serialize when both are active so runs never overlap. Job errors are
// logged and watching continues.
package watch
