package hostcheck

import "os"

// Identity is the host user the container user maps onto. The UID/GID
// land in the generated environment so files created inside the
// container stay owned by the invoking user.
type Identity struct {
	Username string
	UID      int
	GID      int
}

// ResolveIdentity returns the invoking user's identity. Platforms
// without POSIX ids report negative values; those fall back to
// 1000/1000, the conventional first-user mapping under Docker Desktop.
func ResolveIdentity() Identity {
	return identityFrom(os.Getuid(), os.Getgid(), os.Getenv)
}

func identityFrom(uid, gid int, getenv func(string) string) Identity {
	if uid < 0 || gid < 0 {
		uid, gid = 1000, 1000
	}
	name := getenv("USER")
	if name == "" {
		name = getenv("USERNAME")
	}
	if name == "" {
		name = "developer"
	}
	return Identity{Username: name, UID: uid, GID: gid}
}
