// Package controller reconciles delivered snapshots into the kiosk surface.
//
// Each delivery runs through a fixed sequence of stages:
//
//	RECEIVE → TOGGLE-PREFS → IMAGE-APPLY → IMAGE-PRERENDER-NEXT → TEXT/STATE → COMMIT
//
// Stages run one after another and deliveries never overlap: a snapshot that
// arrives while another is being reconciled is queued and processed after
// the earlier one commits. A changed backend deploy time or a "reload"
// toggle entry stops the pipeline with ErrReload before anything is
// reconciled.
package controller
