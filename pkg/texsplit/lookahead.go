package texsplit

// FindClosingBrace scans tokens starting at index from for the close brace that
// brings depth back to zero. The scan stops at the first token starting at or
// beyond byte offset limit. It returns the index of the closing token, or -1.
func FindClosingBrace(tokens []Token, from, depth, limit int) int {
	if depth <= 0 {
		return -1
	}
	if from < 0 {
		from = 0
	}

	for idx := from; idx < len(tokens); idx++ {
		tok := tokens[idx]
		if tok.Start >= limit {
			return -1
		}
		switch tok.Kind {
		case TokOpenBrace:
			depth++
		case TokCloseBrace:
			depth--
			if depth == 0 {
				return idx
			}
		default:
		}
	}

	return -1
}

// FindDisplayMathCloser scans tokens starting at index from for the delimiter
// closing a display math region opened by a token of kind opener (TokDisplayDollar
// or TokDisplayOpen). The scan stops at the next paragraph break or at the first
// token starting at or beyond byte offset limit. It returns the index of the
// closing token, or -1.
func FindDisplayMathCloser(tokens []Token, from int, opener TokenKind, limit int) int {
	var closer TokenKind
	switch opener {
	case TokDisplayDollar:
		closer = TokDisplayDollar
	case TokDisplayOpen:
		closer = TokDisplayClose
	default:
		return -1
	}
	if from < 0 {
		from = 0
	}

	for idx := from; idx < len(tokens); idx++ {
		tok := tokens[idx]
		if tok.Start >= limit || tok.Kind == TokParBreak {
			return -1
		}
		if tok.Kind == closer {
			return idx
		}
	}

	return -1
}
