// Package proofstore renders stored mathematical elements (theorems,
// definitions, proofs) for on-screen display.
//
// # Pipeline
//
// A render pass is one linear pipeline over a (format, body) pair:
//
//  1. Math extraction: delimited math spans ($$...$$, \[...\], \(...\),
//     $...$) are replaced with indexed placeholders.
//  2. Markup conversion: Markdown/LaTeX bodies go through Goldmark; html
//     passes through; plain bypasses the pipeline entirely.
//  3. Sanitization: bluemonday removes script-capable markup.
//  4. Math restoration: placeholders are substituted back, byte-identical.
//  5. Typesetting: each span is rendered to MathML; malformed spans fall
//     back to literal text without aborting the document.
//
// # Quick Start
//
//	r := proofstore.NewRenderer()
//	var target proofstore.Target
//	err := r.Render(ctx, proofstore.Unit{
//	    Format: proofstore.FormatMarkdown,
//	    Body:   "Let $x^2$ be **bold**.",
//	}, &target)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(target.HTML())
//
// Content faults never surface as render errors: a body that cannot be
// converted or typeset renders as escaped literal text, and per-span
// typesetting problems are reported through Target.Warnings.
package proofstore
