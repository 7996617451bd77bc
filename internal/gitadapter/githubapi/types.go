package githubapi

// Wire types for the subset of the GitHub REST API this adapter uses:
// git refs, trees, blobs, and commits. Field names follow GitHub's JSON
// exactly; see https://docs.github.com/en/rest/git.

type gitRef struct {
	Ref    string     `json:"ref"`
	Object refsObject `json:"object"`
}

type refsObject struct {
	SHA  string `json:"sha"`
	Type string `json:"type"`
}

type updateRefRequest struct {
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}

type commitObject struct {
	SHA       string         `json:"sha"`
	Message   string         `json:"message"`
	Tree      refsObject     `json:"tree"`
	Parents   []refsObject   `json:"parents"`
	Author    commitIdentity `json:"author"`
	Committer commitIdentity `json:"committer"`
}

type commitIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

type createCommitRequest struct {
	Message   string         `json:"message"`
	Tree      string         `json:"tree"`
	Parents   []string       `json:"parents"`
	Author    commitIdentity `json:"author,omitempty"`
	Committer commitIdentity `json:"committer,omitempty"`
}

// treeEntry's SHA is a pointer because a tree-entry deletion requires an
// explicit JSON null, which omitempty on a plain string would instead
// drop from the request entirely (GitHub would then treat the entry as
// "no change" rather than "delete").
type treeEntry struct {
	Path    string  `json:"path"`
	Mode    string  `json:"mode"`
	Type    string  `json:"type"`
	SHA     *string `json:"sha"`
	Content string  `json:"content,omitempty"`
}

type treeObject struct {
	SHA       string      `json:"sha"`
	Tree      []treeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

type createTreeRequest struct {
	BaseTree string      `json:"base_tree,omitempty"`
	Tree     []treeEntry `json:"tree"`
}

type createBlobRequest struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type blobObject struct {
	SHA string `json:"sha"`
}

type branchListEntry struct {
	Name   string     `json:"name"`
	Commit refsObject `json:"commit"`
}

type compareResponse struct {
	Files []compareFile `json:"files"`
}

type compareFile struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
}
