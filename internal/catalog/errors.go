package catalog

import "errors"

var (
	// ErrWrite reports a failed episode persistence. The caller logs it and
	// moves on to the next candidate; the run itself continues.
	ErrWrite = errors.New("catalog write failed")

	// ErrBackupVerification reports a compressed backup that failed
	// verification. Fatal; no catalog mutation may follow it.
	ErrBackupVerification = errors.New("backup verification failed")

	// ErrIntegrity reports a failed engine-level consistency check. Fatal.
	ErrIntegrity = errors.New("database integrity check failed")
)
