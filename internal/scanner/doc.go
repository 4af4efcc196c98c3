// Package scanner discovers image files under one or more root directories.
//
// Each root is walked on its own goroutine (bounded by workers.ForIO), and
// each walk is itself parallel across directories via fastwalk. Every
// regular file is passed through PathFilter, which rejects, in order:
//
//   - entries that are not regular files after symlink resolution
//   - paths under an exclude prefix, compared component by component
//   - AppleDouble companions whose name starts with "._"
//   - files without an extension or whose lowercased extension is not allowed
//
// Scan never fails. Missing roots, unreadable directories and dangling links
// are logged and counted in metrics but contribute no paths. The order of
// Result.Paths is unspecified.
//
//	s, err := scanner.New([]string{"/data/images"}, []string{"/data/images/cache"}, []string{"jpg", "png"})
//	if err != nil {
//	    return err
//	}
//	res := s.Scan()
//	fmt.Println(res.TotalFiles, res.Elapsed)
package scanner
