package arabic

// Contextual forms of an Arabic letter. Letters that connect only to the
// preceding letter (alef, dal, ra, waw, ...) have no initial or medial form.
type forms struct {
	isolated rune
	final    rune
	initial  rune
	medial   rune
}

const (
	lam          = 'ل'
	tatweel      = 'ـ'
	alefMadda    = 'آ'
	alefHamza    = 'أ'
	alefHamzaBlw = 'إ'
	alef         = 'ا'
)

// Arabic Presentation Forms-B, indexed by the base letter.
var formTable = map[rune]forms{
	'ء': {0xFE80, 0, 0, 0},           // hamza
	'آ': {0xFE81, 0xFE82, 0, 0},      // alef madda
	'أ': {0xFE83, 0xFE84, 0, 0},      // alef hamza above
	'ؤ': {0xFE85, 0xFE86, 0, 0},      // waw hamza
	'إ': {0xFE87, 0xFE88, 0, 0},      // alef hamza below
	'ئ': {0xFE89, 0xFE8A, 0xFE8B, 0xFE8C}, // yeh hamza
	'ا': {0xFE8D, 0xFE8E, 0, 0},      // alef
	'ب': {0xFE8F, 0xFE90, 0xFE91, 0xFE92}, // beh
	'ة': {0xFE93, 0xFE94, 0, 0},      // teh marbuta
	'ت': {0xFE95, 0xFE96, 0xFE97, 0xFE98}, // teh
	'ث': {0xFE99, 0xFE9A, 0xFE9B, 0xFE9C}, // theh
	'ج': {0xFE9D, 0xFE9E, 0xFE9F, 0xFEA0}, // jeem
	'ح': {0xFEA1, 0xFEA2, 0xFEA3, 0xFEA4}, // hah
	'خ': {0xFEA5, 0xFEA6, 0xFEA7, 0xFEA8}, // khah
	'د': {0xFEA9, 0xFEAA, 0, 0},      // dal
	'ذ': {0xFEAB, 0xFEAC, 0, 0},      // thal
	'ر': {0xFEAD, 0xFEAE, 0, 0},      // reh
	'ز': {0xFEAF, 0xFEB0, 0, 0},      // zain
	'س': {0xFEB1, 0xFEB2, 0xFEB3, 0xFEB4}, // seen
	'ش': {0xFEB5, 0xFEB6, 0xFEB7, 0xFEB8}, // sheen
	'ص': {0xFEB9, 0xFEBA, 0xFEBB, 0xFEBC}, // sad
	'ض': {0xFEBD, 0xFEBE, 0xFEBF, 0xFEC0}, // dad
	'ط': {0xFEC1, 0xFEC2, 0xFEC3, 0xFEC4}, // tah
	'ظ': {0xFEC5, 0xFEC6, 0xFEC7, 0xFEC8}, // zah
	'ع': {0xFEC9, 0xFECA, 0xFECB, 0xFECC}, // ain
	'غ': {0xFECD, 0xFECE, 0xFECF, 0xFED0}, // ghain
	'ـ': {0x0640, 0x0640, 0x0640, 0x0640}, // tatweel joins both sides
	'ف': {0xFED1, 0xFED2, 0xFED3, 0xFED4}, // feh
	'ق': {0xFED5, 0xFED6, 0xFED7, 0xFED8}, // qaf
	'ك': {0xFED9, 0xFEDA, 0xFEDB, 0xFEDC}, // kaf
	'ل': {0xFEDD, 0xFEDE, 0xFEDF, 0xFEE0}, // lam
	'م': {0xFEE1, 0xFEE2, 0xFEE3, 0xFEE4}, // meem
	'ن': {0xFEE5, 0xFEE6, 0xFEE7, 0xFEE8}, // noon
	'ه': {0xFEE9, 0xFEEA, 0xFEEB, 0xFEEC}, // heh
	'و': {0xFEED, 0xFEEE, 0, 0},      // waw
	'ى': {0xFEEF, 0xFEF0, 0, 0},      // alef maksura
	'ي': {0xFEF1, 0xFEF2, 0xFEF3, 0xFEF4}, // yeh
}

// Lam-alef ligatures, keyed by the alef variant following the lam.
var lamAlefTable = map[rune]struct{ isolated, final rune }{
	alefMadda:    {0xFEF5, 0xFEF6},
	alefHamza:    {0xFEF7, 0xFEF8},
	alefHamzaBlw: {0xFEF9, 0xFEFA},
	alef:         {0xFEFB, 0xFEFC},
}

// isTransparent reports whether r is a combining mark that does not
// participate in joining (harakat, superscript alef, Quranic annotations).
func isTransparent(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) ||
		r == 0x0670 ||
		(r >= 0x0610 && r <= 0x061A) ||
		(r >= 0x06D6 && r <= 0x06DC)
}

// joinsForward reports whether r connects to the letter after it.
func joinsForward(r rune) bool {
	f, ok := formTable[r]
	return ok && f.initial != 0
}

// joinsBackward reports whether r accepts a connection from the letter
// before it.
func joinsBackward(r rune) bool {
	f, ok := formTable[r]
	return ok && f.final != 0
}

// reshape replaces each Arabic base letter with the contextual presentation
// form dictated by its neighbors. Output remains in logical order; callers
// apply bidi reordering afterwards.
func reshape(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		f, ok := formTable[r]
		if !ok {
			out = append(out, r)
			continue
		}

		prev := adjacentLetter(runes, i, -1)
		prevConnects := prev != 0 && joinsForward(prev)

		// Lam followed by an alef variant collapses into a ligature.
		if r == lam {
			j := i + 1
			for j < len(runes) && isTransparent(runes[j]) {
				j++
			}
			if j < len(runes) {
				if lig, isLig := lamAlefTable[runes[j]]; isLig {
					if prevConnects {
						out = append(out, lig.final)
					} else {
						out = append(out, lig.isolated)
					}
					out = append(out, runes[i+1:j]...)
					i = j
					continue
				}
			}
		}

		next := adjacentLetter(runes, i, 1)
		nextConnects := f.initial != 0 && next != 0 && joinsBackward(next)

		switch {
		case prevConnects && nextConnects && f.medial != 0:
			out = append(out, f.medial)
		case prevConnects && f.final != 0:
			out = append(out, f.final)
		case nextConnects:
			out = append(out, f.initial)
		default:
			out = append(out, f.isolated)
		}
	}
	return string(out)
}

// adjacentLetter returns the nearest non-transparent rune before (dir -1) or
// after (dir +1) position i, or 0 at a string boundary.
func adjacentLetter(runes []rune, i, dir int) rune {
	for j := i + dir; j >= 0 && j < len(runes); j += dir {
		if !isTransparent(runes[j]) {
			return runes[j]
		}
	}
	return 0
}
