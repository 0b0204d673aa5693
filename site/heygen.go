package site

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime"
	"time"

	cdpb "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/input"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"renderbot/browser"
	"renderbot/config"
	"renderbot/types"
)

const (
	avatarsMenuSel  = `[data-testid="my-avatars-menu"]`
	projectsMenuSel = `[data-testid="projects-menu"]`

	newFolderBtn    = `//button[@title="New Folder"]`
	folderNameInput = `//input[@placeholder="Enter folder name"]`
	folderSaveBtn   = `//button[normalize-space()="Save"]`
	videoTitleInput = `//input[@placeholder="Untitled Video"]`
	submitBtn       = `//button[normalize-space()="Submit"]`

	avatarSearchBudget = 30 * time.Second
	dialogWaitBudget   = 6 * time.Second
	editorWaitBudget   = 8 * time.Second
)

// HeyGen drives the HeyGen web app through a shared browser session. All
// selectors for the site live in this file.
type HeyGen struct {
	sess    *browser.Session
	siteURL string
}

func NewHeyGen(sess *browser.Session, siteURL string) *HeyGen {
	return &HeyGen{sess: sess, siteURL: siteURL}
}

// Open navigates to the homepage, grants clipboard access for the app
// origins, and clears any greeting overlays.
func (h *HeyGen) Open(ctx context.Context) error {
	for _, origin := range []string{"https://app.heygen.com", "https://www.heygen.com"} {
		err := h.sess.Run(ctx,
			cdpb.GrantPermissions([]cdpb.PermissionType{
				cdpb.PermissionTypeClipboardReadWrite,
				cdpb.PermissionTypeClipboardSanitizedWrite,
			}).WithOrigin(origin),
		)
		if err != nil {
			log.Printf("⚠️ Could not grant clipboard permissions for %s: %v", origin, err)
		}
	}

	if err := h.sess.Run(ctx,
		chromedp.Navigate(h.siteURL),
		chromedp.Sleep(config.NavigationSettle),
	); err != nil {
		return fmt.Errorf("open site: %w", err)
	}
	h.DismissOverlays(ctx)
	return nil
}

// CreateFolder makes a project folder for this run's submissions
func (h *HeyGen) CreateFolder(ctx context.Context, name string) error {
	log.Println("📁 Creating project folder on the site...")
	h.DismissOverlays(ctx)

	err := h.sess.Run(ctx,
		chromedp.Click(projectsMenuSel, chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.Click(newFolderBtn, chromedp.BySearch),
		chromedp.Sleep(time.Second),
		chromedp.SendKeys(folderNameInput, name, chromedp.BySearch),
		chromedp.Sleep(time.Second),
		chromedp.Click(folderSaveBtn, chromedp.BySearch),
		chromedp.Sleep(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("create folder %q: %w", name, err)
	}
	log.Printf("✅ Folder created: %q", name)
	return nil
}

// SelectAvatar scrolls the avatar gallery until the named card appears,
// clicks it, and waits for the use-this-avatar confirmation dialog. The
// confirmation is an explicit required step: skipping it used to leave
// the editor in a half-selected state.
func (h *HeyGen) SelectAvatar(ctx context.Context, name string) error {
	log.Printf("🔍 Searching for avatar %q...", name)
	h.DismissOverlays(ctx)

	if err := h.sess.Run(ctx,
		chromedp.Click(avatarsMenuSel, chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		return fmt.Errorf("open avatar gallery: %w", err)
	}

	findJS := fmt.Sprintf(`(() => {
		const needle = %s.toLowerCase();
		const cards = Array.from(document.querySelectorAll('div[class*="tw-rounded"]'));
		const card = cards.find(c => c.offsetParent !== null && (c.innerText || '').toLowerCase().includes(needle));
		if (!card) return false;
		card.scrollIntoView({block: 'center'});
		card.click();
		return true;
	})()`, jsonArg(name))

	deadline := time.Now().Add(avatarSearchBudget)
	for time.Now().Before(deadline) {
		found, err := h.evalBool(ctx, findJS)
		if err != nil {
			return fmt.Errorf("avatar search: %w", err)
		}
		if found {
			log.Printf("✅ Found avatar %q", name)
			h.confirmAvatarUse(ctx)
			return nil
		}
		if err := h.sess.Run(ctx,
			chromedp.Evaluate(`window.scrollBy(0, 1000)`, nil),
			chromedp.Sleep(time.Second),
		); err != nil {
			return fmt.Errorf("avatar scroll: %w", err)
		}
	}
	return fmt.Errorf("avatar %q: %w", name, ErrNotFound)
}

// confirmAvatarUse waits for the "Use in video" dialog and clicks it.
// The dialog does not always appear (older UI drops straight into the
// editor), so an expired wait without a dialog is not an error.
func (h *HeyGen) confirmAvatarUse(ctx context.Context) {
	confirmJS := `(() => {
		const dialogs = Array.from(document.querySelectorAll('div.rc-dialog-wrap'));
		for (const dialog of dialogs) {
			if (dialog.offsetParent === null) continue;
			const labels = ['use in video', 'use this avatar', 'use avatar'];
			const buttons = Array.from(dialog.querySelectorAll('button'));
			const target = buttons.find(b => labels.includes((b.innerText || '').trim().toLowerCase()));
			if (target) { target.click(); return true; }
		}
		return false;
	})()`

	deadline := time.Now().Add(dialogWaitBudget)
	for time.Now().Before(deadline) {
		clicked, err := h.evalBool(ctx, confirmJS)
		if err != nil {
			return
		}
		if clicked {
			_ = h.sess.Run(ctx, chromedp.Sleep(600*time.Millisecond))
			return
		}
		_ = h.sess.Run(ctx, chromedp.Sleep(400*time.Millisecond))
	}
}

// OpenStudio gets to the script editor, handling the UI variants: newer
// builds drop straight in after avatar selection, older ones need a
// button or a Create menu.
func (h *HeyGen) OpenStudio(ctx context.Context) error {
	h.DismissOverlays(ctx)

	if h.waitEditor(ctx, 5*time.Second) {
		return nil
	}

	direct := []string{
		"Create with AI Studio",
		"Create in AI studio",
		"AI Studio",
		"Create video",
		"Use this avatar",
		"Use avatar",
	}
	for _, label := range direct {
		if h.clickByLabel(ctx, []string{label}, 5*time.Second) != "" {
			if h.waitEditor(ctx, editorWaitBudget) {
				return nil
			}
		}
	}

	if h.clickByLabel(ctx, []string{"Create", "New"}, 4*time.Second) != "" {
		_ = h.sess.Run(ctx, chromedp.Sleep(600*time.Millisecond))
		if h.clickByLabel(ctx, []string{"Create in AI studio", "AI Studio"}, 6*time.Second) != "" {
			if h.waitEditor(ctx, editorWaitBudget) {
				return nil
			}
		}
	}
	return fmt.Errorf("open studio: %w", ErrNotFound)
}

// EnterScript follows the clipboard protocol via scriptEntry. The editor
// requires paste events for large scripts, so paste is always attempted
// first.
func (h *HeyGen) EnterScript(ctx context.Context, script string) (bool, error) {
	if err := h.focusEditor(ctx); err != nil {
		return false, err
	}

	mod := pasteModifier()
	entry := scriptEntry{
		paste: func(s string) error {
			return h.sess.Run(ctx,
				chromedp.KeyEvent("a", chromedp.KeyModifiers(mod)),
				chromedp.Sleep(200*time.Millisecond),
				chromedp.Evaluate(
					fmt.Sprintf(`navigator.clipboard.writeText(%s)`, jsonArg(s)),
					nil,
					func(p *cdpruntime.EvaluateParams) *cdpruntime.EvaluateParams {
						return p.WithAwaitPromise(true)
					},
				),
				chromedp.Sleep(300*time.Millisecond),
				chromedp.KeyEvent("v", chromedp.KeyModifiers(mod)),
				chromedp.Sleep(2*time.Second),
			)
		},
		read: func() (string, error) { return h.editorText(ctx) },
		clear: func() error {
			return h.sess.Run(ctx,
				chromedp.KeyEvent("a", chromedp.KeyModifiers(mod)),
				chromedp.KeyEvent(kb.Delete),
				chromedp.Sleep(200*time.Millisecond),
			)
		},
		insert: func(s string) error {
			return h.sess.Run(ctx,
				chromedp.ActionFunc(func(ctx context.Context) error {
					return input.InsertText(s).Do(ctx)
				}),
				chromedp.Sleep(2*time.Second),
			)
		},
	}
	return entry.enter(script)
}

// SetTitle fills the video name field
func (h *HeyGen) SetTitle(ctx context.Context, title string) error {
	err := h.sess.Run(ctx,
		chromedp.WaitVisible(videoTitleInput, chromedp.BySearch),
		chromedp.Clear(videoTitleInput, chromedp.BySearch),
		chromedp.SendKeys(videoTitleInput, title, chromedp.BySearch),
	)
	if err != nil {
		return fmt.Errorf("set title: %w", err)
	}
	log.Printf("🏷️ Video named: %q", title)
	return nil
}

// ApplyConfig applies editor-level options. The unlimited-engine pick is
// best effort (accounts without it keep their default); the subtitle
// toggle only runs when requested.
func (h *HeyGen) ApplyConfig(ctx context.Context, cfg types.RenderConfig) error {
	h.selectUnlimitedEngine(ctx)

	if cfg.Subtitles != "yes" {
		return nil
	}
	log.Println("📝 Enabling subtitles...")
	toggleJS := `(() => {
		const btn = Array.from(document.querySelectorAll('button'))
			.find(b => b.querySelector('iconpark-icon[name="cc-captions"]') && b.offsetParent !== null);
		if (btn) { btn.click(); return true; }
		return false;
	})()`
	clicked, err := h.evalBool(ctx, toggleJS)
	if err != nil || !clicked {
		log.Printf("⚠️ Could not open subtitle panel (err=%v)", err)
		return nil
	}

	templateJS := `(() => {
		const grid = document.querySelector('div.tw-grid.tw-gap-4.tw-pt-4.tw-grid-cols-1');
		const btn = grid && grid.querySelector('button');
		if (btn) { btn.click(); return true; }
		return false;
	})()`
	_ = h.sess.Run(ctx, chromedp.Sleep(time.Second))
	if ok, _ := h.evalBool(ctx, templateJS); ok {
		log.Println("✅ Subtitle template selected")
	}
	_ = h.sess.Run(ctx, chromedp.Sleep(time.Second))
	return nil
}

func (h *HeyGen) selectUnlimitedEngine(ctx context.Context) {
	dropdownJS := `(() => {
		const btns = Array.from(document.querySelectorAll('button'));
		const b = btns.find(e => e.offsetParent !== null &&
			(e.querySelector('span.tw-text-textTitle') || e.querySelector('img[alt*="Avatar"]')) &&
			/avatar/i.test(e.innerText || ''));
		if (b) { b.click(); return true; }
		return false;
	})()`
	if ok, _ := h.evalBool(ctx, dropdownJS); !ok {
		return
	}
	_ = h.sess.Run(ctx, chromedp.Sleep(time.Second))

	unlimitedJS := `(() => {
		const items = Array.from(document.querySelectorAll('div[role="menuitem"]'));
		const it = items.find(e => /unlimited/i.test(e.innerText || ''));
		if (it) { it.click(); return true; }
		document.body.click();
		return false;
	})()`
	if ok, _ := h.evalBool(ctx, unlimitedJS); ok {
		log.Println("✅ Selected unlimited engine")
	}
	_ = h.sess.Run(ctx, chromedp.Sleep(time.Second))
}

// Submit opens the generate modal, applies resolution and fps, files the
// job under folderName, and confirms the submission.
func (h *HeyGen) Submit(ctx context.Context, cfg types.RenderConfig, folderName string) (string, error) {
	log.Println("⚙️ Opening generate modal...")
	h.DismissOverlays(ctx)

	disabledJS := `(() => {
		const btn = Array.from(document.querySelectorAll('button'))
			.find(b => (b.innerText || '').trim() === 'Generate' && b.offsetParent !== null);
		if (!btn) return 'missing';
		return btn.disabled ? 'disabled' : 'ok';
	})()`
	state, err := h.evalString(ctx, disabledJS)
	if err != nil {
		return "", fmt.Errorf("inspect generate button: %w", err)
	}
	switch state {
	case "missing":
		return "", fmt.Errorf("generate button: %w", ErrNotFound)
	case "disabled":
		return "", ErrGenerateDisabled
	}

	if label := h.clickByLabel(ctx, []string{"Generate"}, 5*time.Second); label == "" {
		return "", fmt.Errorf("click generate: %w", ErrNotFound)
	}
	if !h.waitText(ctx, "Generate video", 5*time.Second) {
		return "", fmt.Errorf("generate modal did not open: %w", ErrNotFound)
	}
	_ = h.sess.Run(ctx, chromedp.Sleep(2*time.Second))

	log.Printf("🎥 Setting resolution to %s...", cfg.Quality)
	if err := h.pickCombobox(ctx, "Resolution", cfg.Quality); err != nil {
		return "", err
	}
	log.Printf("🎥 Setting fps to %s...", cfg.FPS)
	if err := h.pickCombobox(ctx, "Fps", cfg.FPS); err != nil {
		return "", err
	}

	log.Printf("📂 Filing under folder %q...", folderName)
	if err := h.pickFolder(ctx, folderName); err != nil {
		return "", err
	}

	log.Println("✅ Submitting video generation...")
	if err := h.sess.Run(ctx,
		chromedp.Click(submitBtn, chromedp.BySearch),
		chromedp.Sleep(5*time.Second),
	); err != nil {
		return "", fmt.Errorf("click submit: %w", err)
	}
	h.DismissOverlays(ctx)

	// The site exposes no stable job id at submission time; the caller
	// correlates by the deterministic video title instead.
	return "", nil
}

func (h *HeyGen) pickCombobox(ctx context.Context, label, value string) error {
	openJS := fmt.Sprintf(`(() => {
		const needle = %s;
		const boxes = Array.from(document.querySelectorAll('button[role="combobox"]'));
		const b = boxes.find(e => {
			const c = e.closest('div.tw-flex.tw-flex-col.tw-gap-1') || e.parentElement;
			return c && (c.innerText || '').includes(needle);
		});
		if (b) { b.click(); return true; }
		return false;
	})()`, jsonArg(label))
	if ok, err := h.evalBool(ctx, openJS); err != nil || !ok {
		return fmt.Errorf("open %s selector: %w", label, firstErr(err, ErrNotFound))
	}
	_ = h.sess.Run(ctx, chromedp.Sleep(time.Second))

	pickJS := fmt.Sprintf(`(() => {
		const needle = %s;
		const opts = Array.from(document.querySelectorAll('[data-item-label="true"]'));
		const o = opts.find(e => (e.innerText || '').includes(needle));
		if (o) { o.click(); return true; }
		return false;
	})()`, jsonArg(value))
	if ok, err := h.evalBool(ctx, pickJS); err != nil || !ok {
		return fmt.Errorf("pick %s %q: %w", label, value, firstErr(err, ErrNotFound))
	}
	return h.sess.Run(ctx, chromedp.Sleep(time.Second))
}

func (h *HeyGen) pickFolder(ctx context.Context, folderName string) error {
	openJS := `(() => {
		const boxes = Array.from(document.querySelectorAll('div.tw-flex.tw-flex-col.tw-gap-1'));
		const c = boxes.find(e => (e.innerText || '').includes('Add to folder'));
		const btn = c && c.querySelector('button');
		if (btn) { btn.click(); return true; }
		return false;
	})()`
	if ok, err := h.evalBool(ctx, openJS); err != nil || !ok {
		return fmt.Errorf("open folder picker: %w", firstErr(err, ErrNotFound))
	}
	_ = h.sess.Run(ctx, chromedp.Sleep(2*time.Second))

	selectJS := fmt.Sprintf(`(() => {
		const needle = %s;
		const byInput = document.querySelector('input[value=' + JSON.stringify(needle) + ']');
		if (byInput) {
			const row = byInput.closest('div');
			if (row) { row.click(); return true; }
		}
		const rows = Array.from(document.querySelectorAll('div[data-folder-id]'));
		const row = rows.find(e => (e.innerText || '').includes(needle));
		if (row) { row.click(); return true; }
		return false;
	})()`, jsonArg(folderName))
	if ok, err := h.evalBool(ctx, selectJS); err != nil || !ok {
		return fmt.Errorf("select folder %q: %w", folderName, firstErr(err, ErrNotFound))
	}
	_ = h.sess.Run(ctx, chromedp.Sleep(time.Second))

	confirmJS := `(() => {
		const btns = Array.from(document.querySelectorAll('button'));
		const b = btns.find(e => e.querySelector('iconpark-icon[name="use"]') && /confirm/i.test(e.innerText || ''));
		if (b) { b.click(); return true; }
		return false;
	})()`
	if ok, err := h.evalBool(ctx, confirmJS); err != nil || !ok {
		return fmt.Errorf("confirm folder: %w", firstErr(err, ErrNotFound))
	}
	return h.sess.Run(ctx, chromedp.Sleep(time.Second))
}

// OpenFolder resets to the homepage and double-clicks into the folder
func (h *HeyGen) OpenFolder(ctx context.Context, folderName string) error {
	if err := h.sess.Run(ctx,
		chromedp.Navigate(h.siteURL),
		chromedp.Sleep(config.NavigationSettle),
	); err != nil {
		return fmt.Errorf("navigate home: %w", err)
	}
	h.DismissOverlays(ctx)

	if err := h.sess.Run(ctx,
		chromedp.Click(projectsMenuSel, chromedp.ByQuery),
		chromedp.Sleep(5*time.Second),
	); err != nil {
		return fmt.Errorf("open projects: %w", err)
	}

	dblclickJS := fmt.Sprintf(`(() => {
		const needle = %s;
		const cards = Array.from(document.querySelectorAll('div[draggable="true"]'));
		const card = cards.find(e => (e.innerText || '').includes(needle));
		if (!card) return false;
		card.scrollIntoView({block: 'center'});
		card.dispatchEvent(new MouseEvent('dblclick', {bubbles: true, cancelable: true, view: window}));
		return true;
	})()`, jsonArg(folderName))
	ok, err := h.evalBool(ctx, dblclickJS)
	if err != nil {
		return fmt.Errorf("open folder %q: %w", folderName, err)
	}
	if !ok {
		return fmt.Errorf("folder %q: %w", folderName, ErrNotFound)
	}
	return h.sess.Run(ctx, chromedp.Sleep(3*time.Second))
}

// ListReadyVideos reads every finished-render card in the open folder in
// one pass, so a poll cycle costs one page read regardless of batch size.
func (h *HeyGen) ListReadyVideos(ctx context.Context) ([]string, error) {
	listJS := `(() => {
		const cards = Array.from(document.querySelectorAll('div.tw-group'))
			.filter(c => c.querySelector('iconpark-icon[name="play"]'));
		return cards.map(c => c.innerText || '').filter(Boolean);
	})()`
	var cards []string
	if err := h.sess.Run(ctx, chromedp.Evaluate(listJS, &cards)); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return cards, nil
}

// TriggerDownload opens the card's overflow menu and confirms the
// download dialog; the browser then streams into the output directory.
func (h *HeyGen) TriggerDownload(ctx context.Context, videoName string) error {
	menuJS := fmt.Sprintf(`(() => {
		const needle = %s;
		const cards = Array.from(document.querySelectorAll('div.tw-group'))
			.filter(c => c.querySelector('iconpark-icon[name="play"]'));
		const card = cards.find(c => (c.innerText || '').includes(needle));
		if (!card) return false;
		const icon = card.querySelector('iconpark-icon[name="more-level"]');
		const btn = icon && icon.closest('button');
		if (!btn) return false;
		card.scrollIntoView({block: 'center'});
		btn.click();
		return true;
	})()`, jsonArg(videoName))
	ok, err := h.evalBool(ctx, menuJS)
	if err != nil {
		return fmt.Errorf("open card menu: %w", err)
	}
	if !ok {
		return fmt.Errorf("video card %q: %w", videoName, ErrNotFound)
	}
	_ = h.sess.Run(ctx, chromedp.Sleep(time.Second))

	itemJS := `(() => {
		const els = Array.from(document.querySelectorAll('div, button'));
		const el = els.find(e => e.offsetParent !== null &&
			e.querySelector('iconpark-icon[name="download"]') &&
			/download/i.test(e.innerText || ''));
		if (el) { el.click(); return true; }
		return false;
	})()`
	if ok, err := h.evalBool(ctx, itemJS); err != nil || !ok {
		return fmt.Errorf("download menu item: %w", firstErr(err, ErrNotFound))
	}
	_ = h.sess.Run(ctx, chromedp.Sleep(2*time.Second))

	confirmJS := `(() => {
		const btns = Array.from(document.querySelectorAll('button'));
		const b = btns.find(e => e.offsetParent !== null &&
			e.querySelector('iconpark-icon[name="download"]') &&
			/download/i.test(e.innerText || ''));
		if (b) { b.click(); return true; }
		return false;
	})()`
	if ok, err := h.evalBool(ctx, confirmJS); err != nil || !ok {
		return fmt.Errorf("download confirm button: %w", firstErr(err, ErrNotFound))
	}
	return nil
}

// ----- editor helpers -----

func (h *HeyGen) focusEditor(ctx context.Context) error {
	focusJS := `(() => {
		const hint = Array.from(document.querySelectorAll('span, p, div'))
			.find(e => e.childElementCount === 0 && (e.innerText || '').startsWith('Type your script'));
		const target = hint ||
			document.querySelector('span[data-node-view-content]') ||
			document.querySelector('div[contenteditable="true"]');
		if (!target) return false;
		target.click();
		return true;
	})()`
	ok, err := h.evalBool(ctx, focusJS)
	if err != nil {
		return fmt.Errorf("focus editor: %w", err)
	}
	if !ok {
		return fmt.Errorf("script editor: %w", ErrNotFound)
	}
	return h.sess.Run(ctx, chromedp.Sleep(500*time.Millisecond))
}

func (h *HeyGen) editorText(ctx context.Context) (string, error) {
	textJS := `(() => {
		const el = document.querySelector('div[contenteditable="true"]') ||
			document.querySelector('span[data-node-view-content]');
		return el ? (el.innerText || '') : '';
	})()`
	return h.evalString(ctx, textJS)
}

func (h *HeyGen) waitEditor(ctx context.Context, budget time.Duration) bool {
	presentJS := `(() => {
		const el = document.querySelector('div[contenteditable="true"]') ||
			document.querySelector('span[data-node-view-content]');
		return !!el && el.offsetParent !== null;
	})()`
	deadline := time.Now().Add(budget)
	for time.Now().Before(deadline) {
		if ok, err := h.evalBool(ctx, presentJS); err == nil && ok {
			return true
		}
		if err := h.sess.Run(ctx, chromedp.Sleep(400*time.Millisecond)); err != nil {
			return false
		}
	}
	return false
}

func (h *HeyGen) waitText(ctx context.Context, needle string, budget time.Duration) bool {
	js := fmt.Sprintf(`document.body.innerText.includes(%s)`, jsonArg(needle))
	deadline := time.Now().Add(budget)
	for time.Now().Before(deadline) {
		if ok, err := h.evalBool(ctx, js); err == nil && ok {
			return true
		}
		if err := h.sess.Run(ctx, chromedp.Sleep(400*time.Millisecond)); err != nil {
			return false
		}
	}
	return false
}

// clickByLabel clicks the first visible button/link whose text contains
// one of the labels, retrying until the budget expires. Returns the
// matched label, or empty.
func (h *HeyGen) clickByLabel(ctx context.Context, labels []string, budget time.Duration) string {
	js := fmt.Sprintf(`(() => {
		const labels = %s;
		const els = Array.from(document.querySelectorAll('button, a, [role="menuitem"]'));
		for (const label of labels) {
			const needle = label.toLowerCase();
			const el = els.find(e => e.offsetParent !== null &&
				(e.innerText || '').trim().toLowerCase().includes(needle));
			if (el) {
				el.scrollIntoView({block: 'center'});
				el.click();
				return label;
			}
		}
		return '';
	})()`, jsonArgs(labels))

	deadline := time.Now().Add(budget)
	for time.Now().Before(deadline) {
		label, err := h.evalString(ctx, js)
		if err == nil && label != "" {
			return label
		}
		if err := h.sess.Run(ctx, chromedp.Sleep(400*time.Millisecond)); err != nil {
			return ""
		}
	}
	return ""
}

func (h *HeyGen) evalBool(ctx context.Context, js string) (bool, error) {
	var ok bool
	err := h.sess.Run(ctx, chromedp.Evaluate(js, &ok))
	return ok, err
}

func (h *HeyGen) evalString(ctx context.Context, js string) (string, error) {
	var s string
	err := h.sess.Run(ctx, chromedp.Evaluate(js, &s))
	return s, err
}

func pasteModifier() input.Modifier {
	if runtime.GOOS == "darwin" {
		return input.ModifierMeta
	}
	return input.ModifierCtrl
}

func jsonArg(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func jsonArgs(ss []string) string {
	b, _ := json.Marshal(ss)
	return string(b)
}

func firstErr(err error, fallback error) error {
	if err != nil {
		return err
	}
	return fallback
}

var _ Adapter = (*HeyGen)(nil)
