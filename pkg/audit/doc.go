// Package audit records security-relevant actions such as one-time token
// issuance and verification outcomes.
//
// A Logger builds an Event (ID, timestamp, action, result), enriches it with
// values pulled from context through optional extractors, applies
// EventOption values and hands it to a Storage. Storages live next to the
// backend they write to: MemoryStorage here, a PostgreSQL implementation in
// pkg/pgstore.
//
//	log := audit.NewLogger(pgstore.NewAuditStorage(pool),
//	    audit.WithRequestIDExtractor(requestIDFromContext),
//	)
//	_ = log.Log(ctx, "twofactor.token.verify",
//	    audit.WithPrincipal("user-42"),
//	    audit.WithResult(audit.ResultFailure),
//	)
//
// Validation failures wrap ErrEventValidation.
package audit
