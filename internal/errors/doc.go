// Package errors provides the structured errors used across rpg-dicebot.
//
// Errors carry a Code, a user-facing message, an optional Reason that discriminates
// within a code, and free-form metadata.
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFoundf("no table for %s", category).
//	    WithReason(errors.ReasonNoTableFound).
//	    WithMeta(errors.MetaAvailableTiers, "1-4, 5-10")
//
// Wrapping errors:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return nil, errors.Wrap(err, "failed to save conversation")
//	}
//
// Wrap keeps the code, reason and metadata of a wrapped Error. A plain error
// becomes CodeInternal.
//
// # Error Checking
//
//	if errors.IsNotFound(err) { ... }
//	if errors.HasReason(err, errors.ReasonInvalidExpression) { ... }
//	tiers, _ := errors.GetMetaString(err, errors.MetaAvailableTiers)
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	if c.Repository == nil {
//	    vb.RequiredField("Repository")
//	}
//	return vb.Build()
//
// # gRPC Integration
//
// Handlers return errors.ToGRPCError(err). The reason and metadata are sent as a
// google.rpc.ErrorInfo detail and restored on the client by FromGRPCError.
package errors
