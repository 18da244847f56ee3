package registry

import (
	"github.com/dshills/prefs/internal/config/value"
)

func intp(n int) *int { return &n }

// Boolean settings.
var (
	ExtendedAssembler = Bool(Definition{
		Key: "ExtendedAssembler", LegacyID: 0,
		Description: "Allow pseudo-instructions and extended addressing formats",
		Tags:        []string{"assembler"},
	}, true)
	BareMachine = Bool(Definition{
		Key: "BareMachine", LegacyID: 1,
		Description: "Restrict programs to bare machine basic instructions",
		Tags:        []string{"assembler"},
	}, false)
	AssembleOnOpen = Bool(Definition{
		Key: "AssembleOnOpen", LegacyID: 2,
		Description: "Assemble a file as soon as it is opened",
		Tags:        []string{"assembler"},
	}, false)
	AssembleAll = Bool(Definition{
		Key: "AssembleAll", LegacyID: 3,
		Description: "Assemble every file in the directory, not only the current one",
		Tags:        []string{"assembler"},
	}, false)
	LabelWindowVisibility = Bool(Definition{
		Key: "LabelWindowVisibility", LegacyID: 4,
		Description: "Show the labels window (symbol table)",
		Tags:        []string{"display"},
	}, false)
	DisplayAddressesInHex = Bool(Definition{
		Key: "DisplayAddressesInHex", LegacyID: 5,
		Description: "Display addresses in hexadecimal",
		Tags:        []string{"display", "execution"},
	}, true)
	DisplayValuesInHex = Bool(Definition{
		Key: "DisplayValuesInHex", LegacyID: 6,
		Description: "Display values in hexadecimal",
		Tags:        []string{"display", "execution"},
	}, true)
	LoadExceptionHandler = Bool(Definition{
		Key: "LoadExceptionHandler", LegacyID: 7,
		Description: "Assemble the selected exception handler with every program",
		Tags:        []string{"assembler", "execution"},
	}, false)
	DelayedBranching = Bool(Definition{
		Key: "DelayedBranching", LegacyID: 8,
		Description: "Execute the statement following a taken branch",
		Tags:        []string{"execution"},
	}, false)
	EditorLineNumbersDisplayed = Bool(Definition{
		Key: "EditorLineNumbersDisplayed", LegacyID: 9,
		Description: "Show line numbers in the editor",
		Tags:        []string{"editor", "display"},
	}, true)
	WarningsAreErrors = Bool(Definition{
		Key: "WarningsAreErrors", LegacyID: 10,
		Description: "Treat assembler warnings as errors",
		Tags:        []string{"assembler"},
	}, false)
	ProgramArguments = Bool(Definition{
		Key: "ProgramArguments", LegacyID: 11,
		Description: "Accept program arguments",
		Tags:        []string{"execution"},
	}, false)
	DataSegmentHighlighting = Bool(Definition{
		Key: "DataSegmentHighlighting", LegacyID: 12,
		Description: "Highlight data segment changes",
		Tags:        []string{"display", "execution"},
	}, true)
	RegistersHighlighting = Bool(Definition{
		Key: "RegistersHighlighting", LegacyID: 13,
		Description: "Highlight register changes",
		Tags:        []string{"display", "execution"},
	}, true)
	StartAtMain = Bool(Definition{
		Key: "StartAtMain", LegacyID: 14,
		Description: "Start execution at the main label when defined",
		Tags:        []string{"assembler", "execution"},
	}, false)
	EditorCurrentLineHighlighting = Bool(Definition{
		Key: "EditorCurrentLineHighlighting", LegacyID: 15,
		Description: "Highlight the line being edited",
		Tags:        []string{"editor", "display"},
	}, true)
	PopupInstructionGuidance = Bool(Definition{
		Key: "PopupInstructionGuidance", LegacyID: 16,
		Description: "Show instruction guidance popups while typing",
		Tags:        []string{"editor"},
	}, true)
	PopupSyscallInput = Bool(Definition{
		Key: "PopupSyscallInput", LegacyID: 17,
		Description: "Use a dialog for input system calls",
		Tags:        []string{"execution"},
	}, false)
	GenericTextEditor = Bool(Definition{
		Key: "GenericTextEditor", LegacyID: 18,
		Description: "Use a plain text editor instead of the language-aware one",
		Tags:        []string{"editor"},
	}, false)
	AutoIndent = Bool(Definition{
		Key: "AutoIndent", LegacyID: 19,
		Description: "Auto-indent new lines in the editor",
		Tags:        []string{"editor", "formatting"},
	}, true)
	SelfModifyingCode = Bool(Definition{
		Key: "SelfModifyingCode", LegacyID: 20,
		Description: "Allow programs to write to the text segment and branch to the data segment",
		Tags:        []string{"execution"},
	}, false)

	LafSystemPreferencesEnabled = Bool(Definition{
		Key: "LafSystemPreferencesEnabled", LegacyID: NoLegacyID,
		Description: "Follow system look and feel preferences",
		Tags:        []string{"laf"},
	}, true)
	LafAccentColorFollowsSystem = Bool(Definition{
		Key: "LafAccentColorFollowsSystem", LegacyID: NoLegacyID,
		Description: "Take the accent color from the system",
		Tags:        []string{"laf"},
	}, true)
	LafSelectionColorFollowsSystem = Bool(Definition{
		Key: "LafSelectionColorFollowsSystem", LegacyID: NoLegacyID,
		Description: "Take the selection color from the system",
		Tags:        []string{"laf"},
	}, true)
	LafFontSizeFollowsSystem = Bool(Definition{
		Key: "LafFontSizeFollowsSystem", LegacyID: NoLegacyID,
		Description: "Take the font size from the system",
		Tags:        []string{"laf"},
	}, true)
	LafThemeFollowsSystem = Bool(Definition{
		Key: "LafThemeFollowsSystem", LegacyID: NoLegacyID,
		Description: "Take the theme from the system",
		Tags:        []string{"laf"},
	}, true)
)

// String settings.
var (
	ExceptionHandler = String(Definition{
		Key: "ExceptionHandler", LegacyID: 0,
		Description: "Path of the exception handler source file",
		Tags:        []string{"assembler"},
	}, "")
	TextColumnOrder = String(Definition{
		Key: "TextColumnOrder", LegacyID: 1,
		Description: "Order of the text segment table columns",
		Tags:        []string{"display", "table"},
		Pattern:     `^\s*\d+(\s+\d+)*\s*$`,
	}, "0 1 2 3 4")
	LabelSortState = String(Definition{
		Key: "LabelSortState", LegacyID: 2,
		Description: "Sort state of the labels window",
		Tags:        []string{"display"},
	}, "0")
	MemoryConfiguration = String(Definition{
		Key: "MemoryConfiguration", LegacyID: 3,
		Description: "Identifier of the memory configuration",
		Tags:        []string{"execution"},
	}, "")
	CaretBlinkRate = String(Definition{
		Key: "CaretBlinkRate", LegacyID: 4,
		Description: "Caret blink rate in milliseconds, 0 disables blinking",
		Tags:        []string{"editor"},
		Minimum:     intp(0),
	}, "500")
	EditorTabSize = String(Definition{
		Key: "EditorTabSize", LegacyID: 5,
		Description: "Editor tab size in characters",
		Tags:        []string{"editor", "formatting"},
		Minimum:     intp(1),
		Maximum:     intp(32),
	}, "8")
	EditorPopupPrefixLength = String(Definition{
		Key: "EditorPopupPrefixLength", LegacyID: 6,
		Description: "Letters typed before instruction guidance pops up",
		Tags:        []string{"editor"},
		Minimum:     intp(1),
		Maximum:     intp(40),
	}, "2")
	LafTheme = String(Definition{
		Key: "LafTheme", LegacyID: NoLegacyID,
		Description:     "Look and feel theme name",
		Tags:            []string{"laf"},
		CaseInsensitive: true,
	}, "")
	LafFontSizePreset = String(Definition{
		Key: "LafFontSizePreset", LegacyID: NoLegacyID,
		Description: "Font size preset in percent",
		Tags:        []string{"laf"},
		Minimum:     intp(1),
	}, "100")
)

// Font settings.
var (
	EditorFont = Font(Definition{
		Key: "EditorFont", LegacyID: 0,
		Description: "Font of the text editor",
		Tags:        []string{"editor", "font"},
	}, value.DefaultFontFamily, "Plain", "12")
	EvenRowFont = Font(Definition{
		Key: "EvenRowFont", LegacyID: 1,
		Description: "Font of even table rows",
		Tags:        []string{"table", "font"},
	}, value.DefaultFontFamily, "Plain", "12")
	OddRowFont = Font(Definition{
		Key: "OddRowFont", LegacyID: 2,
		Description: "Font of odd table rows",
		Tags:        []string{"table", "font"},
	}, value.DefaultFontFamily, "Plain", "12")
	TextSegmentHighlightFont = Font(Definition{
		Key: "TextSegmentHighlightFont", LegacyID: 3,
		Description: "Font of the highlighted text segment row",
		Tags:        []string{"table", "font", "highlight"},
	}, value.DefaultFontFamily, "Plain", "12")
	TextSegmentDelayslotHighlightFont = Font(Definition{
		Key: "TextSegmentDelayslotHighightFont", LegacyID: 4,
		Description: "Font of the highlighted delay slot row",
		Tags:        []string{"table", "font", "highlight"},
	}, value.DefaultFontFamily, "Plain", "12")
	DataSegmentHighlightFont = Font(Definition{
		Key: "DataSegmentHighlightFont", LegacyID: 5,
		Description: "Font of highlighted data segment cells",
		Tags:        []string{"table", "font", "highlight"},
	}, value.DefaultFontFamily, "Plain", "12")
	RegisterHighlightFont = Font(Definition{
		Key: "RegisterHighlightFont", LegacyID: 6,
		Description: "Font of highlighted registers",
		Tags:        []string{"table", "font", "highlight"},
	}, value.DefaultFontFamily, "Plain", "12")
)

// Color settings.
var (
	EvenRowBackground = Color(Definition{
		Key: "EvenRowBackground", LegacyID: 0,
		Description: "Background of even table rows",
		Tags:        []string{"table", "color"},
	}, "0x00e0e0e0")
	EvenRowForeground = Color(Definition{
		Key: "EvenRowForeground", LegacyID: 1,
		Description: "Foreground of even table rows",
		Tags:        []string{"table", "color"},
	}, "0")
	OddRowBackground = Color(Definition{
		Key: "OddRowBackground", LegacyID: 2,
		Description: "Background of odd table rows",
		Tags:        []string{"table", "color"},
	}, "0x00ffffff")
	OddRowForeground = Color(Definition{
		Key: "OddRowForeground", LegacyID: 3,
		Description: "Foreground of odd table rows",
		Tags:        []string{"table", "color"},
	}, "0")
	TextSegmentHighlightBackground = Color(Definition{
		Key: "TextSegmentHighlightBackground", LegacyID: 4,
		Description: "Background of the highlighted text segment row",
		Tags:        []string{"table", "color", "highlight"},
	}, "0x00ffff99")
	TextSegmentHighlightForeground = Color(Definition{
		Key: "TextSegmentHighlightForeground", LegacyID: 5,
		Description: "Foreground of the highlighted text segment row",
		Tags:        []string{"table", "color", "highlight"},
	}, "0")
	TextSegmentDelaySlotHighlightBackground = Color(Definition{
		Key: "TextSegmentDelaySlotHighlightBackground", LegacyID: 6,
		Description: "Background of the highlighted delay slot row",
		Tags:        []string{"table", "color", "highlight"},
	}, "0x0033ff00")
	TextSegmentDelaySlotHighlightForeground = Color(Definition{
		Key: "TextSegmentDelaySlotHighlightForeground", LegacyID: 7,
		Description: "Foreground of the highlighted delay slot row",
		Tags:        []string{"table", "color", "highlight"},
	}, "0")
	DataSegmentHighlightBackground = Color(Definition{
		Key: "DataSegmentHighlightBackground", LegacyID: 8,
		Description: "Background of highlighted data segment cells",
		Tags:        []string{"table", "color", "highlight"},
	}, "0x0099ccff")
	DataSegmentHighlightForeground = Color(Definition{
		Key: "DataSegmentHighlightForeground", LegacyID: 9,
		Description: "Foreground of highlighted data segment cells",
		Tags:        []string{"table", "color", "highlight"},
	}, "0")
	RegisterHighlightBackground = Color(Definition{
		Key: "RegisterHighlightBackground", LegacyID: 10,
		Description: "Background of highlighted registers",
		Tags:        []string{"table", "color", "highlight"},
	}, "0x0099cc55")
	RegisterHighlightForeground = Color(Definition{
		Key: "RegisterHighlightForeground", LegacyID: 11,
		Description: "Foreground of highlighted registers",
		Tags:        []string{"table", "color", "highlight"},
	}, "0")

	LafAccentColor = Color(Definition{
		Key: "LafAccentColor", LegacyID: NoLegacyID,
		Description: "Look and feel accent color",
		Tags:        []string{"laf", "color"},
	}, "")
	LafSelectionColor = Color(Definition{
		Key: "LafSelectionColor", LegacyID: NoLegacyID,
		Description: "Look and feel selection color",
		Tags:        []string{"laf", "color"},
	}, "")
)

// Syntax style settings, one per token category.
var (
	SyntaxStyleNull     = syntaxStyle(value.TokenNull, "0x0", false, false)
	SyntaxStyleComment1 = syntaxStyle(value.TokenComment1, "0x00CC33", true, false)
	SyntaxStyleComment2 = syntaxStyle(value.TokenComment2, "0x990033", true, false)
	SyntaxStyleKeyword1 = syntaxStyle(value.TokenKeyword1, "0x0000ff", false, false)
	SyntaxStyleKeyword2 = syntaxStyle(value.TokenKeyword2, "0xff00ff", false, false)
	SyntaxStyleKeyword3 = syntaxStyle(value.TokenKeyword3, "0xff0000", false, false)
	SyntaxStyleLiteral1 = syntaxStyle(value.TokenLiteral1, "0x00CC33", false, false)
	SyntaxStyleLiteral2 = syntaxStyle(value.TokenLiteral2, "0x00CC33", false, false)
	SyntaxStyleLabel    = syntaxStyle(value.TokenLabel, "0x0", true, false)
	SyntaxStyleOperator = syntaxStyle(value.TokenOperator, "0x0", false, true)
	SyntaxStyleInvalid  = syntaxStyle(value.TokenInvalid, "0xff0000", false, false)
	SyntaxStyleMacroArg = syntaxStyle(value.TokenMacroArg, "0x969600", false, false)
)

func syntaxStyle(token value.Token, color string, italic, bold bool) Def[value.SyntaxStyle] {
	return SyntaxStyle(Definition{
		Description: "Editor style of " + token.String() + " tokens",
		Tags:        []string{"editor", "syntax"},
	}, token, color, italic, bold)
}

// RegisterDefaults registers all built-in settings in group order.
func (r *Registry) RegisterDefaults() {
	for _, d := range []*Definition{
		ExtendedAssembler.Definition,
		BareMachine.Definition,
		AssembleOnOpen.Definition,
		AssembleAll.Definition,
		LabelWindowVisibility.Definition,
		DisplayAddressesInHex.Definition,
		DisplayValuesInHex.Definition,
		LoadExceptionHandler.Definition,
		DelayedBranching.Definition,
		EditorLineNumbersDisplayed.Definition,
		WarningsAreErrors.Definition,
		ProgramArguments.Definition,
		DataSegmentHighlighting.Definition,
		RegistersHighlighting.Definition,
		StartAtMain.Definition,
		EditorCurrentLineHighlighting.Definition,
		PopupInstructionGuidance.Definition,
		PopupSyscallInput.Definition,
		GenericTextEditor.Definition,
		AutoIndent.Definition,
		SelfModifyingCode.Definition,
		LafSystemPreferencesEnabled.Definition,
		LafAccentColorFollowsSystem.Definition,
		LafSelectionColorFollowsSystem.Definition,
		LafFontSizeFollowsSystem.Definition,
		LafThemeFollowsSystem.Definition,

		ExceptionHandler.Definition,
		TextColumnOrder.Definition,
		LabelSortState.Definition,
		MemoryConfiguration.Definition,
		CaretBlinkRate.Definition,
		EditorTabSize.Definition,
		EditorPopupPrefixLength.Definition,
		LafTheme.Definition,
		LafFontSizePreset.Definition,

		EditorFont.Definition,
		EvenRowFont.Definition,
		OddRowFont.Definition,
		TextSegmentHighlightFont.Definition,
		TextSegmentDelayslotHighlightFont.Definition,
		DataSegmentHighlightFont.Definition,
		RegisterHighlightFont.Definition,

		EvenRowBackground.Definition,
		EvenRowForeground.Definition,
		OddRowBackground.Definition,
		OddRowForeground.Definition,
		TextSegmentHighlightBackground.Definition,
		TextSegmentHighlightForeground.Definition,
		TextSegmentDelaySlotHighlightBackground.Definition,
		TextSegmentDelaySlotHighlightForeground.Definition,
		DataSegmentHighlightBackground.Definition,
		DataSegmentHighlightForeground.Definition,
		RegisterHighlightBackground.Definition,
		RegisterHighlightForeground.Definition,
		LafAccentColor.Definition,
		LafSelectionColor.Definition,

		SyntaxStyleNull.Definition,
		SyntaxStyleComment1.Definition,
		SyntaxStyleComment2.Definition,
		SyntaxStyleKeyword1.Definition,
		SyntaxStyleKeyword2.Definition,
		SyntaxStyleKeyword3.Definition,
		SyntaxStyleLiteral1.Definition,
		SyntaxStyleLiteral2.Definition,
		SyntaxStyleLabel.Definition,
		SyntaxStyleOperator.Definition,
		SyntaxStyleInvalid.Definition,
		SyntaxStyleMacroArg.Definition,
	} {
		r.MustRegister(d)
	}
}
