package md2note

// Scripts evaluated in the page. Each is a function expression whose
// arguments are passed by page.Eval.

// jsImageSnapshot(selector) -> {count, lastSrc}
const jsImageSnapshot = `(selector) => {
	const imgs = document.querySelectorAll(selector);
	const last = imgs.length ? imgs[imgs.length - 1] : null;
	return { count: imgs.length, lastSrc: last && last.src ? last.src : "" };
}`

// jsClearSelection drops any selection so a paste cannot replace content.
const jsClearSelection = `() => {
	const sel = window.getSelection();
	if (sel) sel.removeAllRanges();
}`

// jsPasteImage(base64, mimeType, fileName, surfaceSelector) -> "clipboard" | "event" | ""
//
// The clipboard API path is preferred; a synthetic paste event carrying the
// file is dispatched only when that path is unavailable or throws.
const jsPasteImage = `async (base64, mimeType, fileName, surfaceSelector) => {
	const res = await fetch("data:" + mimeType + ";base64," + base64);
	const blob = await res.blob();
	const target = () => {
		const active = document.activeElement;
		if (active && active.isContentEditable) return active;
		return document.querySelector(surfaceSelector) || active;
	};
	if (typeof ClipboardItem !== "undefined" && navigator.clipboard && navigator.clipboard.write) {
		try {
			await navigator.clipboard.write([new ClipboardItem({ [mimeType]: blob })]);
			const el = target();
			if (el && el.focus) el.focus();
			if (document.execCommand("paste")) return "clipboard";
		} catch (e) {}
	}
	const file = new File([blob], fileName, { type: mimeType });
	const dt = new DataTransfer();
	dt.items.add(file);
	const ev = new ClipboardEvent("paste", { clipboardData: dt, bubbles: true, cancelable: true });
	const el = target();
	if (!el) return "";
	el.dispatchEvent(ev);
	return "event";
}`

// jsReadStorage() -> {origin, localStorage: [{name, value}]}
const jsReadStorage = `() => {
	const items = [];
	try {
		for (let i = 0; i < localStorage.length; i++) {
			const k = localStorage.key(i);
			items.push({ name: k, value: localStorage.getItem(k) });
		}
	} catch (e) {}
	return { origin: location.origin, localStorage: items };
}`

// seedStorageScript is a document init script; %s is the JSON-encoded
// []OriginStorage.
const seedStorageScript = `(() => {
	const origins = %s;
	for (const o of origins) {
		if (o.origin !== location.origin) continue;
		try {
			for (const it of o.localStorage || []) localStorage.setItem(it.name, it.value);
		} catch (e) {}
	}
})();`
