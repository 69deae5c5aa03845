// Package signup implements the account signup and login workflow for a web
// application: password hashing, email verification token issuance,
// transactional persistence, and session token (JWT) issuance on login.
//
// Account lifecycle:
//   - An account is created unverified together with a verification token in
//     a single transaction. The signup only commits once the verification
//     email has been dispatched; a failed notification rolls the whole
//     operation back.
//   - ConfirmVerification flips the account to verified exactly once, when
//     the holder of the token proves control of the email address.
//   - Authenticate refuses access until that transition completes.
//
// Storage is built on Bun repositories; callers inject the concrete
// PasswordHasher, TokenService, and VerificationMailer at construction so no
// global state is consulted inside the workflow.
package signup
