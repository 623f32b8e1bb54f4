package mysql

const insertReportSQL = `
INSERT INTO reports (id, uid, title, payload)
VALUES (?, ?, ?, ?)
`

// Newest first; aligns with the index on (uid, created_at).
const listReportsSQL = `
SELECT id, uid, title, payload, created_at
FROM reports
WHERE uid = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`
