package normalize

// homoglyphTable maps visually-confusable Unicode characters to their
// canonical Latin/ASCII counterpart. It must cover at minimum (spec §4.A):
// Cyrillic and Greek look-alikes of common Latin letters, fullwidth
// punctuation, curly quotes, and various dash forms.
//
// The table folds to lowercase Latin letters; case folding runs before
// homoglyph folding in the pipeline (step 2 then step 4), so uppercase
// Cyrillic/Greek input has already been folded to lowercase by the time
// this table is consulted. Uppercase entries only take effect when
// foldHomoglyphs is called directly; several letters (e.g. Cyrillic В Н К
// М Т, Greek Β Ε Η Μ Τ) are listed only in uppercase, so their lowercase
// forms are not folded by Normalize.
var homoglyphTable = map[rune]rune{
	// Cyrillic lowercase look-alikes.
	'а': 'a', // U+0430 CYRILLIC SMALL LETTER A
	'е': 'e', // U+0435 CYRILLIC SMALL LETTER IE
	'о': 'o', // U+043E CYRILLIC SMALL LETTER O
	'р': 'p', // U+0440 CYRILLIC SMALL LETTER ER
	'с': 'c', // U+0441 CYRILLIC SMALL LETTER ES
	'х': 'x', // U+0445 CYRILLIC SMALL LETTER HA
	'у': 'y', // U+0443 CYRILLIC SMALL LETTER U
	'і': 'i', // U+0456 CYRILLIC SMALL LETTER BYELORUSSIAN-UKRAINIAN I
	'ѕ': 's', // U+0455 CYRILLIC SMALL LETTER DZE
	'ј': 'j', // U+0458 CYRILLIC SMALL LETTER JE

	// Cyrillic uppercase look-alikes.
	'А': 'a', // U+0410
	'Е': 'e', // U+0415
	'О': 'o', // U+041E
	'Р': 'p', // U+0420
	'С': 'c', // U+0421
	'Х': 'x', // U+0425
	'В': 'b', // U+0412 (visually resembles Latin B)
	'Н': 'h', // U+041D (visually resembles Latin H)
	'К': 'k', // U+041A
	'М': 'm', // U+041C
	'Т': 't', // U+0422

	// Greek lowercase look-alikes.
	'α': 'a', // U+03B1 GREEK SMALL LETTER ALPHA
	'ο': 'o', // U+03BF GREEK SMALL LETTER OMICRON
	'ρ': 'p', // U+03C1 GREEK SMALL LETTER RHO
	'υ': 'u', // U+03C5 GREEK SMALL LETTER UPSILON
	'ν': 'v', // U+03BD GREEK SMALL LETTER NU (loose visual match)
	'κ': 'k', // U+03BA GREEK SMALL LETTER KAPPA

	// Greek uppercase look-alikes.
	'Α': 'a', // U+0391
	'Ο': 'o', // U+039F
	'Β': 'b', // U+0392
	'Ε': 'e', // U+0395
	'Ζ': 'z', // U+0396
	'Η': 'h', // U+0397
	'Ι': 'i', // U+0399
	'Κ': 'k', // U+039A
	'Μ': 'm', // U+039C
	'Ν': 'n', // U+039D
	'Τ': 't', // U+03A4
	'Χ': 'x', // U+03A7
	'Υ': 'y', // U+03A5

	// Fullwidth ASCII forms (commonly used to evade plain-ASCII filters).
	'Ａ': 'a', 'Ｂ': 'b', 'Ｃ': 'c', 'Ｄ': 'd', 'Ｅ': 'e', 'Ｆ': 'f', 'Ｇ': 'g',
	'Ｈ': 'h', 'Ｉ': 'i', 'Ｊ': 'j', 'Ｋ': 'k', 'Ｌ': 'l', 'Ｍ': 'm', 'Ｎ': 'n',
	'Ｏ': 'o', 'Ｐ': 'p', 'Ｑ': 'q', 'Ｒ': 'r', 'Ｓ': 's', 'Ｔ': 't', 'Ｕ': 'u',
	'Ｖ': 'v', 'Ｗ': 'w', 'Ｘ': 'x', 'Ｙ': 'y', 'Ｚ': 'z',
	'ａ': 'a', 'ｂ': 'b', 'ｃ': 'c', 'ｄ': 'd', 'ｅ': 'e', 'ｆ': 'f', 'ｇ': 'g',
	'ｈ': 'h', 'ｉ': 'i', 'ｊ': 'j', 'ｋ': 'k', 'ｌ': 'l', 'ｍ': 'm', 'ｎ': 'n',
	'ｏ': 'o', 'ｐ': 'p', 'ｑ': 'q', 'ｒ': 'r', 'ｓ': 's', 'ｔ': 't', 'ｕ': 'u',
	'ｖ': 'v', 'ｗ': 'w', 'ｘ': 'x', 'ｙ': 'y', 'ｚ': 'z',

	// Fullwidth punctuation.
	'（': '(', '）': ')', '．': '.', '，': ',', '：': ':', '；': ';',
	'！': '!', '？': '?', '／': '/', '＼': '\\',

	// Curly quotes -> straight quotes.
	'‘': '\'', // LEFT SINGLE QUOTATION MARK
	'’': '\'', // RIGHT SINGLE QUOTATION MARK
	'“': '"',  // LEFT DOUBLE QUOTATION MARK
	'”': '"',  // RIGHT DOUBLE QUOTATION MARK
	'′': '\'', // PRIME
	'″': '"',  // DOUBLE PRIME

	// Dash variants -> ASCII hyphen.
	'‐': '-', // HYPHEN
	'‑': '-', // NON-BREAKING HYPHEN
	'‒': '-', // FIGURE DASH
	'–': '-', // EN DASH
	'—': '-', // EM DASH
	'―': '-', // HORIZONTAL BAR
	'−': '-', // MINUS SIGN
}
