// Package pagination materializes every item of a paginated source into one
// slice, without the caller knowing how the source paginates.
//
// A source is a Fetcher. The engine calls it once for page 1 and looks at
// the shape of the answer:
//
//   - Plain list: pages 2, 3, ... are requested one at a time until a page
//     is empty or shorter than the page size.
//   - Counted ({data, total}): the page count is derived from the total and
//     the size of page 1, then every remaining page is requested at once.
//   - Cursored ({data, cursor}): the returned token is passed back until a
//     page is empty or the token is absent or empty.
//
// Any other first answer fails with ErrShape after that single call.
//
// Example usage:
//
//	fetchUsers := pagination.ByPage(func(ctx context.Context, page int) (pagination.Page[User], error) {
//		users, total, err := api.ListUsers(ctx, page)
//		return pagination.Counted[User]{Data: users, Total: total}, err
//	})
//	users, err := pagination.All(ctx, fetchUsers)
//
// The engine:
//   - Keeps items in page order, including under concurrency
//   - Returns errors from the fetch function unchanged (no retry, no wrap)
//   - Never returns partial results
//   - Runs every strategy on a trampoline, so stack use does not grow
//     with the number of pages
package pagination
