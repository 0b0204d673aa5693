package site

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// dismissJS clears visible dialogs: the rating prompt, what's-new style
// modals, and generic backdrops. Returns true when something was closed.
const dismissJS = `(() => {
	const labels = ['close', 'done', 'ok', 'continue', 'not now', 'no thanks', 'skip', 'cancel'];
	const selectors = ['div.tw-stack-dialog', 'div.rc-dialog-wrap', '[role="dialog"]'];
	for (const selector of selectors) {
		const overlays = Array.from(document.querySelectorAll(selector)).slice(0, 3);
		for (const overlay of overlays) {
			if (overlay.offsetParent === null) continue;
			const buttons = Array.from(overlay.querySelectorAll('button'));
			const target = buttons.find(b => {
				if (b.offsetParent === null) return false;
				const aria = (b.getAttribute('aria-label') || '').toLowerCase();
				if (aria.includes('close')) return true;
				const text = (b.innerText || '').trim().toLowerCase();
				return labels.includes(text);
			});
			if (target) { target.click(); return true; }
		}
	}
	return false;
})()`

// DismissOverlays presses escape and then tries to close any visible
// dialog by its Close/Not now/Skip control. Attempted opportunistically
// at every step boundary: the rating prompt in particular appears on no
// predictable trigger and intercepts clicks when ignored.
func (h *HeyGen) DismissOverlays(ctx context.Context) {
	_ = h.sess.Run(ctx,
		chromedp.KeyEvent(kb.Escape),
		chromedp.Sleep(200*time.Millisecond),
	)

	deadline := time.Now().Add(4 * time.Second)
	for time.Now().Before(deadline) {
		closed, err := h.evalBool(ctx, dismissJS)
		if err != nil {
			return
		}
		if closed {
			_ = h.sess.Run(ctx, chromedp.Sleep(400*time.Millisecond))
			continue
		}
		return
	}
}
