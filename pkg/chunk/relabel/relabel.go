// Package relabel implements the semantic re-labeler: the pass that turns
// syntactic chunks (WORD, STAR, AMP, COLON, generic PAREN) into the
// fine-grained kinds the emitter needs (FUNC_CALL/PROTO/DEF, ADDR/DEREF,
// CASE_COLON/LABEL_COLON/..., and so on) using only local context, never a
// full parse tree.
package relabel

import "chunkdex/pkg/chunk"

// Context carries the data every relabel pass needs: the chunk list itself
// and the bracket-pairing map the frame tracker produced.
type Context struct {
	List  *chunk.List
	Pairs map[chunk.ID]chunk.ID
}

// Run applies every relabel pass once, in a fixed order chosen so that later
// passes can rely on the classifications earlier ones produced: brackets and
// operators before functions, functions before the variable-definition pass,
// types and colons last since they consult FUNC_*/VAR_* kinds set above them.
func Run(list *chunk.List, pairs map[chunk.ID]chunk.ID) {
	ctx := &Context{List: list, Pairs: pairs}

	resolveTemplates(ctx)
	classifyCasts(ctx)
	classifyPointers(ctx)
	classifyFunctions(ctx)
	classifyVarDefs(ctx)
	classifyTypeDecls(ctx)
	classifyColons(ctx)
	classifyObjC(ctx)
	classifyLambdas(ctx)
	classifyCSProperties(ctx)
}
