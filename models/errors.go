package models

import "errors"

var (
	ErrChannelNotConfigured = errors.New("channel not configured")
	ErrGuildNotConfigured   = errors.New("guild not configured for events")
	ErrDumpDisabled         = errors.New("dumping is disabled in this channel")
	ErrInvalidMode          = errors.New("invalid mode")
	ErrInvalidTable         = errors.New("invalid table name")
)
