// Package tokens provides token estimation and context budgets.
//
// Token estimation is based on the rule-of-thumb that approximately 4
// characters equals 1 token for English text, rounding up. This provides a
// fast estimate without a model-specific tokenizer; callers holding exact
// counts supply them alongside the text instead.
//
// # Counter
//
// The Counter interface provides token counting methods:
//
//	counter := tokens.NewEstimatingCounter()
//	count := counter.Count("Hello, world!")     // ~4 tokens
//	fits := counter.FitsInLimit("text", 1000)   // true if <= 1000 tokens
//
// For one-off counting, use the convenience function:
//
//	count := tokens.EstimateTokens("Hello, world!")
//
// # Budget
//
// Budget bounds the context of a single request: a total ceiling plus a
// reservation for the model's output.
//
//	budget := tokens.NewBudget() // 100k max, 4096 reserved
//	effective := budget.EffectiveFor(model.ContextWindow)
//	systemCap := tokens.SystemCap(effective)
package tokens
