package pipeline

// Stage names as they appear in errors, timings and metrics.
const (
	StageTextMask    = "text_mask"
	StageBarcodeMask = "barcode_mask"
	StageInpaint     = "inpaint"
	StagePersonMask  = "person_mask"
	StageBlur        = "blur"
)

// StageOrder is the fixed execution order. The text and barcode masks are
// built first and inpainted together, and inpainting runs before people
// blurring so the inpainter never samples blurred pixels; reordering
// changes output and is not supported.
var StageOrder = []string{StageTextMask, StageBarcodeMask, StageInpaint, StagePersonMask, StageBlur}
