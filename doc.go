// Package auth implements an account-credential service: registration,
// password verification, bearer token issuance and the account operations an
// authenticated caller may perform on its own record.
//
// Building blocks:
//   - PasswordHasher turns a plaintext password into a salted bcrypt digest and
//     verifies candidates against it. Digests never leave the store layer.
//   - TokenCodec issues and verifies HS256 signed tokens whose subject is the
//     account id. The signing key is passed in at construction and an empty key
//     is rejected up front.
//   - CredentialStore persists accounts through bun. The UNIQUE(email)
//     constraint is the authoritative guard for identity uniqueness; the
//     service pre-check is only a fast path.
//   - Service orchestrates register, login, update and delete, and reports each
//     outcome to an ActivitySink.
//
// The HTTP surface lives in AccountController (fiber handlers) and the bearer
// gate that protects account routes lives in middleware/bearer.
package auth
