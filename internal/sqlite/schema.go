package sqlite

const createRecords = `CREATE TABLE IF NOT EXISTS records (
    ns TEXT NOT NULL,
    db TEXT NOT NULL,
    tb TEXT NOT NULL,
    key TEXT NOT NULL,
    content TEXT NOT NULL CHECK (json_valid(content)),
    PRIMARY KEY (ns, db, tb, key)
);`

// schemaDDL is applied on every Open.
var schemaDDL = []string{
	createRecords,
}
